package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	if err := c.normalizeOrgs(); err != nil {
		return err
	}
	if err := c.normalizeIngest(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultBackend
	}

	path := strings.TrimSpace(c.Store.SQLitePath)
	if path == "" {
		path = filepath.Join(c.Paths.DataDir, defaultSQLiteFile)
	}
	var err error
	if c.Store.SQLitePath, err = expandPath(path); err != nil {
		return fmt.Errorf("store.sqlite_path: %w", err)
	}

	c.Store.PostgresDSN = strings.TrimSpace(c.Store.PostgresDSN)
	if c.Store.PostgresDSN == "" {
		if value, ok := os.LookupEnv(PostgresDSNEnv); ok {
			c.Store.PostgresDSN = strings.TrimSpace(value)
		}
	}
	if c.Store.BusyTimeoutMS == 0 {
		c.Store.BusyTimeoutMS = defaultBusyTimeoutMS
	}
	return nil
}

func (c *Config) normalizeOrgs() error {
	var err error
	if c.Orgs.TablePath, err = expandPath(strings.TrimSpace(c.Orgs.TablePath)); err != nil {
		return fmt.Errorf("orgs.table_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeIngest() error {
	// The separator is used verbatim; only an entirely empty value falls back.
	if c.Ingest.NameSeparator == "" {
		c.Ingest.NameSeparator = defaultNameSeparator
	}

	lock := strings.TrimSpace(c.Ingest.LockPath)
	if lock == "" {
		lock = filepath.Join(c.Paths.DataDir, defaultLockFile)
	}
	var err error
	if c.Ingest.LockPath, err = expandPath(lock); err != nil {
		return fmt.Errorf("ingest.lock_path: %w", err)
	}
	if c.Ingest.MetricsFile, err = expandPath(strings.TrimSpace(c.Ingest.MetricsFile)); err != nil {
		return fmt.Errorf("ingest.metrics_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "text", "pretty":
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch level {
	case "":
		level = defaultLogLevel
	case "warning":
		level = "warn"
	}
	c.Logging.Level = level
}
