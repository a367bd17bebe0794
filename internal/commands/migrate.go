package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	_ "free-rent/internal/migrations"
	"free-rent/migration"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(UpCmd(), DownCmd(), StatusCmd(), HistoryCmd())
	return cmd
}

func getMigrator(cmd *cobra.Command) (*migration.Migrator, func(), error) {
	debug, _ := cmd.Flags().GetBool("debug")
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := initLogging(cfg, cmd.ErrOrStderr()); err != nil {
		return nil, nil, err
	}
	db, err := getDB(cfg, debug)
	if err != nil {
		return nil, nil, err
	}
	return migration.NewMigrator(db), func() { closeDB(db) }, nil
}

func UpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			out := cmd.OutOrStdout()

			m, done, err := getMigrator(cmd)
			if err != nil {
				return err
			}
			defer done()

			pending, err := m.Pending(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get applied migrations: %w", err)
			}
			if len(pending) == 0 {
				fmt.Fprintln(out, "No pending migrations.")
				return nil
			}

			if dryRun {
				fmt.Fprintln(out, "Pending migrations:")
				for _, mr := range pending {
					fmt.Fprintf(out, "- %s (%s)\n", mr.Name, mr.Version)
				}
				return nil
			}

			applied, err := m.Up(cmd.Context())
			for _, mr := range applied {
				fmt.Fprintf(out, "Applied migration: %s (%s)\n", mr.Name, mr.Version)
			}
			return err
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show pending migrations without executing them")
	cmd.Flags().Bool("debug", false, "Log every SQL statement")

	return cmd
}

func DownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the last applied migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, done, err := getMigrator(cmd)
			if err != nil {
				return err
			}
			defer done()

			reverted, err := m.Down(cmd.Context())
			if errors.Is(err, migration.ErrNothingToRevert) {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations to revert.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reverted migration: %s (%s)\n", reverted.Name, reverted.Version)
			return nil
		},
	}
}

func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, done, err := getMigrator(cmd)
			if err != nil {
				return err
			}
			defer done()

			entries, err := m.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", "Version", "Name", "Status")
			for _, e := range entries {
				status := "pending"
				if e.Applied() {
					status = "applied"
				}
				fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", e.Version, e.Name, status)
			}
			return nil
		},
	}
}

func HistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show migration history",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, done, err := getMigrator(cmd)
			if err != nil {
				return err
			}
			defer done()

			records, err := m.History(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No migrations have been applied yet.")
				return nil
			}

			fmt.Fprintf(out, "%-16s  %-30s  %-24s\n", "Version", "Name", "Applied At")
			for _, record := range records {
				fmt.Fprintf(out, "%-16s  %-30s  %-24s\n", record.Version, record.Name, record.AppliedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}
