// Package config loads worklog settings from WORKLOG_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all runtime configuration.
type Config struct {
	DBPath          string     `env:"WORKLOG_DB"`
	DBDriver        string     `env:"WORKLOG_DB_DRIVER" envDefault:"sqlite"`
	PostgresDSN     string     `env:"WORKLOG_POSTGRES_DSN"`
	Owner           string     `env:"WORKLOG_OWNER"`
	TimeZone        string     `env:"WORKLOG_TZ"`
	LogLevel        slog.Level `env:"WORKLOG_LOG_LEVEL" envDefault:"INFO"`
	LogUseCases     bool       `env:"WORKLOG_LOG_USE_CASES"`
	MetricsTextfile string     `env:"WORKLOG_METRICS_TEXTFILE"`
	OTLPEndpoint    string     `env:"WORKLOG_OTLP_ENDPOINT"`

	// Location is resolved from TimeZone; time.Local when unset.
	Location *time.Location `env:"-"`
}

// Load reads configuration from the environment, filling defaults for the
// database path and owner and resolving the time zone.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return Config{}, fmt.Errorf("finding home directory: %w", err)
			}
			cfg.DBPath = filepath.Join(home, ".worklog", "worklog.db")
		}
	case DriverPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("WORKLOG_POSTGRES_DSN is required when WORKLOG_DB_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unsupported WORKLOG_DB_DRIVER %q (want sqlite or postgres)", cfg.DBDriver)
	}

	cfg.Owner = strings.TrimSpace(cfg.Owner)
	if cfg.Owner == "" {
		cfg.Owner = defaultOwner()
	}
	if cfg.Owner == "" {
		return Config{}, fmt.Errorf("cannot determine owner: set WORKLOG_OWNER")
	}

	loc, err := resolveLocation(cfg.TimeZone)
	if err != nil {
		return Config{}, err
	}
	cfg.Location = loc
	return cfg, nil
}

func resolveLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading WORKLOG_TZ %q: %w", name, err)
	}
	return loc, nil
}

func defaultOwner() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
