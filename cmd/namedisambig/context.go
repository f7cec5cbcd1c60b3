package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"namedisambig/internal/config"
	"namedisambig/internal/logging"
	"namedisambig/internal/names"
	"namedisambig/internal/orgtable"
	"namedisambig/internal/store"
	"namedisambig/internal/store/memory"
	"namedisambig/internal/store/postgres"
	"namedisambig/internal/store/sqlite"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	tableOnce sync.Once
	table     *orgtable.Table
	tableErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureTable() (*orgtable.Table, error) {
	c.tableOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.tableErr = err
			return
		}
		c.table, c.tableErr = orgtable.Load(cfg.Orgs.TablePath)
		if c.tableErr != nil {
			c.tableErr = fmt.Errorf("load organization table: %w", c.tableErr)
		}
	})
	return c.table, c.tableErr
}

func (c *commandContext) parser() (*names.Parser, error) {
	table, err := c.ensureTable()
	if err != nil {
		return nil, err
	}
	return names.NewParser(table), nil
}

// openStore opens the configured backend. The caller closes it.
func (c *commandContext) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	table, err := c.ensureTable()
	if err != nil {
		return nil, err
	}
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendPostgres:
		st, err := postgres.Open(ctx, cfg.Store.PostgresDSN, table)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		st, err := sqlite.Open(ctx, cfg.Store.SQLitePath, table,
			time.Duration(cfg.Store.BusyTimeoutMS)*time.Millisecond)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
