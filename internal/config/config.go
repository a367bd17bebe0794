package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds the settings shared by every command.
type Config struct {
	DBDriver             string `toml:"db_driver"`
	DatabaseURL          string `toml:"database_url"`
	ListenAddr           string `toml:"listen_addr"`
	HandleCORS           bool   `toml:"handle_cors"`
	OperatorUser         string `toml:"operator_user"`
	OperatorPasswordHash string `toml:"operator_password_hash"`
	LogLevel             string `toml:"log_level"`
	LogFile              string `toml:"log_file"`
}

func Default() *Config {
	return &Config{
		DBDriver:     "sqlite",
		DatabaseURL:  "free-rent.db",
		ListenAddr:   ":8190",
		HandleCORS:   true,
		OperatorUser: "admin",
		LogLevel:     "info",
		LogFile:      "free-rent.log",
	}
}

// Load reads filename over the defaults, then applies environment
// overrides. An empty filename skips the file.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	for env, dst := range map[string]*string{
		"DB_DRIVER":              &c.DBDriver,
		"DATABASE_URL":           &c.DatabaseURL,
		"LISTEN_ADDR":            &c.ListenAddr,
		"OPERATOR_USER":          &c.OperatorUser,
		"OPERATOR_PASSWORD_HASH": &c.OperatorPasswordHash,
		"LOG_LEVEL":              &c.LogLevel,
		"LOG_FILE":               &c.LogFile,
	} {
		if v, ok := os.LookupEnv(env); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv("HANDLE_CORS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HANDLE_CORS %q: %w", v, err)
		}
		c.HandleCORS = b
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db_driver %q, want sqlite or postgres", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url must be set")
	}
	if c.OperatorUser == "" {
		return fmt.Errorf("operator_user must be set")
	}
	return nil
}
