package testsupport

import (
	"context"
	"testing"
	"time"

	"namedisambig/internal/config"
	"namedisambig/internal/names"
	"namedisambig/internal/orgtable"
	"namedisambig/internal/store/sqlite"
)

// DefaultTable returns the built-in organization table.
func DefaultTable(t testing.TB) *orgtable.Table {
	t.Helper()

	table, err := orgtable.Default()
	if err != nil {
		t.Fatalf("orgtable.Default: %v", err)
	}
	return table
}

// DefaultParser returns a parser over the built-in organization table.
func DefaultParser(t testing.TB) *names.Parser {
	t.Helper()
	return names.NewParser(DefaultTable(t))
}

// MustOpenSQLite opens the SQLite store configured by cfg and registers cleanup.
func MustOpenSQLite(t testing.TB, cfg *config.Config) *sqlite.Store {
	t.Helper()

	st, err := sqlite.Open(context.Background(), cfg.Store.SQLitePath, DefaultTable(t),
		time.Duration(cfg.Store.BusyTimeoutMS)*time.Millisecond)
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
