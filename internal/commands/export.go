package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"free-rent/internal/export"
	"free-rent/internal/listview"
	"free-rent/internal/models"
	"free-rent/internal/store"
)

func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <kind>",
		Short: "Write a list of records to an xlsx spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")
			column, _ := cmd.Flags().GetString("column")
			query, _ := cmd.Flags().GetString("query")

			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			if err := initLogging(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}
			db, err := getDB(cfg, false)
			if err != nil {
				return err
			}
			defer closeDB(db)

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			n, err := exportKind(cmd.Context(), db, kind, f, column, query)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(output)
				return fmt.Errorf("failed to export %s: %w", kind, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s records to %s\n", n, kind, output)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Spreadsheet file to write")
	cmd.Flags().String("column", "", "Column to search, defaults to the first form column")
	cmd.Flags().String("query", "", "Case-insensitive substring the column must contain")
	cmd.MarkFlagRequired("output")

	return cmd
}

func exportKind(ctx context.Context, db *gorm.DB, kind models.Kind, w io.Writer, column, query string) (int, error) {
	switch kind {
	case models.KindTenant:
		return exportRecords[*models.Tenant](ctx, db, w, column, query)
	case models.KindPet:
		return exportRecords[*models.Pet](ctx, db, w, column, query)
	case models.KindVehicle:
		return exportRecords[*models.Vehicle](ctx, db, w, column, query)
	case models.KindProperty:
		return exportRecords[*models.Property](ctx, db, w, column, query)
	case models.KindUnitType:
		return exportRecords[*models.UnitType](ctx, db, w, column, query)
	case models.KindUnit:
		return exportRecords[*models.Unit](ctx, db, w, column, query)
	}
	return 0, fmt.Errorf("unknown entity kind %q", kind)
}

func exportRecords[T models.Entity](ctx context.Context, db *gorm.DB, w io.Writer, column, query string) (int, error) {
	repo, err := store.NewRepo[T](db)
	if err != nil {
		return 0, err
	}
	records, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if column == "" {
		column = listview.DefaultColumn(repo.Table())
	}
	records, err = listview.Filter(repo.Table(), records, column, query)
	if err != nil {
		return 0, err
	}
	return len(records), export.WriteXLSX(w, repo.Table(), records)
}
