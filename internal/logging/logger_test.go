package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namedisambig/internal/config"
	"namedisambig/internal/logging"
)

func TestConsoleLineLiftsComponentAndSubject(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewComponentLogger(logging.NewWriter(&buf, "console", "info"), "resolver")

	ctx := logging.WithRow(logging.WithRunID(context.Background(), "0123456789abcdef"), 12)
	logging.WithContext(ctx, logger).Info("created person", logging.Alias("DUNN, WL"), logging.PersonID(7))

	line := buf.String()
	assert.Contains(t, line, "INFO  resolver [run 01234567 row 12]: created person")
	assert.Contains(t, line, `alias="DUNN, WL"`)
	assert.Contains(t, line, "person_id=7")
	assert.NotContains(t, line, "component=")
	assert.NotContains(t, line, ".go:")
}

func TestConsoleHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, "console", "warn")

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONUsesShortKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, "json", "debug")
	logger.Info("row skipped", logging.String(logging.FieldDocumentID, "abc123"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "row skipped", payload["msg"])
	assert.Equal(t, "abc123", payload["tid"])
	assert.Contains(t, payload, "ts")
}

func TestWarnWithContextFillsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, "json", "info")

	logging.WarnWithContext(logger, "ambiguous alias", "resolution_ambiguous",
		logging.String(logging.FieldErrorHint, "review candidates"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "resolution_ambiguous", payload[logging.FieldEventType])
	assert.Equal(t, "review candidates", payload[logging.FieldErrorHint])
	assert.Equal(t, "operation completed with warnings", payload[logging.FieldImpact])
}

func TestNewFromConfigTeesIntoLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Level = "error"

	logger, err := logging.NewFromConfig(&cfg)
	require.NoError(t, err)
	logger.Error("store unavailable", logging.String(logging.FieldEventType, "store_open_failed"))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &payload))
	assert.Equal(t, "store unavailable", payload["msg"])
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	require.Error(t, err)
}

func TestTeeHandlerDeliversToEveryHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := logging.TeeHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		nil,
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h).With("run_id", "r1")

	logger.Info("only first")
	logger.Error("both")

	assert.Contains(t, a.String(), "only first")
	assert.Contains(t, a.String(), "both")
	assert.NotContains(t, b.String(), "only first")
	assert.Contains(t, b.String(), "run_id=r1")
}

func TestNoopLoggerIsSilent(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "ingest")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
