package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"free-rent/internal/config"
	"free-rent/internal/logtrace"
	"free-rent/internal/store"
)

// ConfigEnv names the config file when --config is not given.
const ConfigEnv = "FREE_RENT_CONFIG"

func getConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func getDB(cfg *config.Config, debug bool) (*gorm.DB, error) {
	db, err := store.Open(cfg.DBDriver, cfg.DatabaseURL, debug)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}

func initLogging(cfg *config.Config, w io.Writer) error {
	if err := logtrace.InitLogger(cfg.LogLevel, w); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
