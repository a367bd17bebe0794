package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"free-rent/internal/auth"
	"free-rent/internal/migrations"
	"free-rent/internal/server"
)

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.ListenAddr = addr
			}
			if err := initLogging(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}

			debug, _ := cmd.Flags().GetBool("debug")
			db, err := getDB(cfg, debug)
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
				if err := migrations.Apply(ctx, db); err != nil {
					return fmt.Errorf("failed to migrate database: %w", err)
				}
			}

			a, err := auth.New(cfg.OperatorUser, cfg.OperatorPasswordHash)
			if err != nil {
				return fmt.Errorf("invalid operator credentials: %w", err)
			}
			srv, err := server.New(db, a, server.Options{HandleCORS: cfg.HandleCORS})
			if err != nil {
				return fmt.Errorf("failed to build server: %w", err)
			}

			log.Info().Str("driver", cfg.DBDriver).Str("operator", cfg.OperatorUser).Msg("starting free-rent api")
			return srv.ListenAndServe(ctx, cfg.ListenAddr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address, overrides listen_addr")
	cmd.Flags().Bool("migrate", true, "Apply pending migrations before serving")
	cmd.Flags().Bool("debug", false, "Log every SQL statement")

	return cmd
}
