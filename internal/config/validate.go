package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.validateIngest(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path must be set for the sqlite backend")
		}
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/namedisambig/config.toml"
			}
			return fmt.Errorf("store.postgres_dsn is required for the postgres backend. Set %s or edit %s", PostgresDSNEnv, defaultPath)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("store.backend %q is not one of sqlite, postgres, memory", c.Store.Backend)
	}
	if c.Store.BusyTimeoutMS < 0 {
		return errors.New("store.busy_timeout_ms must not be negative")
	}
	return nil
}

func (c *Config) validateIngest() error {
	if strings.TrimSpace(c.Ingest.NameSeparator) == "" {
		return errors.New("ingest.name_separator must contain a non-space character")
	}
	if c.Ingest.LockPath == "" {
		return errors.New("ingest.lock_path must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	return nil
}
