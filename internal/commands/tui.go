package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"free-rent/internal/logtrace"
	"free-rent/internal/migrations"
	"free-rent/internal/tui"
	"free-rent/internal/validate"
)

func TuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}

			// The dashboard owns the terminal, so logs go to a file.
			logFile, err := logtrace.OpenFile(cfg.LogFile)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer logFile.Close()
			if err := initLogging(cfg, logFile); err != nil {
				return err
			}

			db, err := getDB(cfg, false)
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := migrations.Apply(cmd.Context(), db); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			log.Info().Str("driver", cfg.DBDriver).Msg("starting dashboard")
			return tui.Run(cmd.Context(), db, validate.New())
		},
	}
}
