package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namedisambig/internal/testsupport"
)

type cliEnv struct {
	configPath  string
	dataDir     string
	metricsPath string
}

func setupCLIEnv(t *testing.T, backend string) cliEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("NAMEDISAMBIG_POSTGRES_DSN", "")

	env := cliEnv{
		configPath:  filepath.Join(base, "namedisambig.toml"),
		dataDir:     filepath.Join(base, "data"),
		metricsPath: filepath.Join(base, "metrics", "namedisambig.prom"),
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = ""

[store]
backend = %q

[ingest]
metrics_file = %q

[logging]
level = "error"
`, env.dataDir, backend, env.metricsPath)
	testsupport.WriteFile(t, env.configPath, content)
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeDocuments(t *testing.T) string {
	t.Helper()
	return testsupport.WriteCSV(t, t.TempDir(),
		[]string{"tid", "title", "au", "au_person", "rc", "rc_person"},
		[]string{"d1", "Memo", "TEAGUE CE JR; PHILIP MORRIS", "TEAGUE CE JR", "DUNN WL; HOLTZMAN A", ""},
		[]string{"d2", "Reply", "DUNN WL", "", "teague ce jr", ""},
	)
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLIEnv(t, "sqlite")

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.NotContains(t, out, "defaults were used")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")
	assert.FileExists(t, target)

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	testsupport.WriteFile(t, path, "[store]\nbackend = \"sqlite\"\nbogus = 1\n")

	_, _, err := runCLI(t, []string{"config", "validate"}, path)
	require.Error(t, err)
}

func TestParseJSON(t *testing.T) {
	env := setupCLIEnv(t, "memory")

	out, _, err := runCLI(t, []string{"parse", "--json", "Dunn, W. L."}, env.configPath)
	require.NoError(t, err)

	var results []parsedName
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Dunn, W. L.", results[0].Raw)
	assert.Equal(t, "W. L. Dunn", results[0].FullName)
	assert.True(t, results[0].Valid)
}

func TestParseRejectsZeroCount(t *testing.T) {
	env := setupCLIEnv(t, "memory")

	_, _, err := runCLI(t, []string{"parse", "--count", "0", "DUNN WL"}, env.configPath)
	require.Error(t, err)
}

func TestIngestThenQueryPeople(t *testing.T) {
	env := setupCLIEnv(t, "sqlite")
	csvPath := writeDocuments(t)

	out, _, err := runCLI(t, []string{"ingest", "--json", csvPath}, env.configPath)
	require.NoError(t, err)

	var summary struct {
		Rows      int `json:"rows"`
		Documents int `json:"documents"`
		Names     int `json:"names"`
		Created   int `json:"created"`
		Matched   int `json:"matched"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.Rows)
	assert.Equal(t, 2, summary.Documents)
	assert.Equal(t, 5, summary.Names)
	assert.Equal(t, 3, summary.Created)
	assert.Equal(t, 2, summary.Matched)
	assert.FileExists(t, filepath.Join(env.dataDir, "people.db"))

	metrics, err := os.ReadFile(env.metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "namedisambig_")

	out, _, err = runCLI(t, []string{"people", "list", "--json"}, env.configPath)
	require.NoError(t, err)
	var people []personView
	require.NoError(t, json.Unmarshal([]byte(out), &people))
	require.Len(t, people, 3)
	for i, p := range people {
		assert.Equal(t, int64(i+1), p.ID)
	}

	out, _, err = runCLI(t, []string{"people", "show", "--json", "1"}, env.configPath)
	require.NoError(t, err)
	var first personView
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Equal(t, int64(1), first.ID)
	assert.NotEmpty(t, first.Aliases)

	out, _, err = runCLI(t, []string{"people", "resolve", "--json", "DUNN WL"}, env.configPath)
	require.NoError(t, err)
	var resolved []struct {
		Outcome string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resolved))
	require.Len(t, resolved, 1)
	assert.Equal(t, "matched", resolved[0].Outcome)

	out, _, err = runCLI(t, []string{"people", "list"}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "3 of 3 people")
}

func TestIngestDryRunLeavesStoreEmpty(t *testing.T) {
	env := setupCLIEnv(t, "sqlite")
	csvPath := writeDocuments(t)

	out, _, err := runCLI(t, []string{"ingest", "--dry-run", csvPath}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
	assert.NoFileExists(t, env.metricsPath)

	out, _, err = runCLI(t, []string{"people", "list"}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No people found")
}

func TestPeopleShowMissing(t *testing.T) {
	env := setupCLIEnv(t, "sqlite")

	_, _, err := runCLI(t, []string{"people", "show", "42"}, env.configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, _, err = runCLI(t, []string{"people", "show", "abc"}, env.configPath)
	require.Error(t, err)
}

func TestOrgsCommands(t *testing.T) {
	env := setupCLIEnv(t, "memory")

	out, _, err := runCLI(t, []string{"orgs", "dump"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "raw:")

	out, _, err = runCLI(t, []string{"orgs", "list"}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "entries")

	out, _, err = runCLI(t, []string{"orgs", "check", "SOMETHING UNLISTED"}, env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "SOMETHING UNLISTED")
}
