package testsupport

import (
	"path/filepath"
	"testing"

	"namedisambig/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// Logging goes to stderr only.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = ""
	cfgVal.Store.SQLitePath = filepath.Join(base, "data", "people.db")
	cfgVal.Ingest.LockPath = filepath.Join(base, "data", "ingest.lock")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithBackend selects the store backend.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Backend = backend
	}
}

// WithOrgTable writes yaml to a file under the base dir and points
// orgs.table_path at it.
func WithOrgTable(yaml string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "orgs.yaml")
		WriteFile(b.t, path, yaml)
		b.cfg.Orgs.TablePath = path
	}
}

// WithMetricsFile enables the ingest textfile export.
func WithMetricsFile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ingest.MetricsFile = filepath.Join(b.baseDir, "metrics", "namedisambig.prom")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
