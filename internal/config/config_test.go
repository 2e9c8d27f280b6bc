package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolated returns a Source that ignores the process environment and any
// .env in the working directory.
func isolated(t *testing.T) Source {
	return Source{
		DotEnv:      filepath.Join(t.TempDir(), "missing.env"),
		Environment: map[string]string{},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(isolated(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "symbol_table_full.json", cfg.OutputPath)
	assert.True(t, cfg.LiteralDetail)
	assert.Equal(t, 4096, cfg.CacheSize)
}

func TestLoad_YAMLOverridesOnlyWhatItSets(t *testing.T) {
	src := isolated(t)
	src.File = writeFile(t, t.TempDir(), "owlsym.yaml", `
output: out.json
canonical: true
literal_detail: false
cache_size: 0
`)
	cfg, err := Load(src)
	require.NoError(t, err)
	assert.Equal(t, "out.json", cfg.OutputPath)
	assert.True(t, cfg.Canonical)
	assert.False(t, cfg.LiteralDetail)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
}

func TestLoad_CUE(t *testing.T) {
	src := isolated(t)
	src.File = writeFile(t, t.TempDir(), "owlsym.cue", `
output:       "table.json"
input_format: "turtle"
log_level:    "debug"
cache_size:   128 * 2
`)
	cfg, err := Load(src)
	require.NoError(t, err)
	assert.Equal(t, "table.json", cfg.OutputPath)
	assert.Equal(t, "turtle", cfg.InputFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 256, cfg.CacheSize)
}

func TestLoad_CUEConflictIsAnError(t *testing.T) {
	src := isolated(t)
	src.File = writeFile(t, t.TempDir(), "bad.cue", `
output: "a.json"
output: "b.json"
`)
	_, err := Load(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.cue")
}

func TestLoad_EnvironmentBeatsFile(t *testing.T) {
	src := isolated(t)
	src.File = writeFile(t, t.TempDir(), "owlsym.yml", "output: from-file.json\nlog_format: json\n")
	src.Environment = map[string]string{
		"OWLSYM_OUTPUT":     "from-env.json",
		"OWLSYM_CANONICAL":  "true",
		"OWLSYM_CACHE_SIZE": "12",
		"UNRELATED":         "x",
	}
	cfg, err := Load(src)
	require.NoError(t, err)
	assert.Equal(t, "from-env.json", cfg.OutputPath)
	assert.True(t, cfg.Canonical)
	assert.Equal(t, 12, cfg.CacheSize)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_DotEnvUnderEnvironment(t *testing.T) {
	src := isolated(t)
	src.DotEnv = writeFile(t, t.TempDir(), ".env", "OWLSYM_DB=dotenv.db\nOWLSYM_METRICS_FILE=metrics.prom\n")
	src.Environment = map[string]string{"OWLSYM_DB": "env.db"}

	cfg, err := Load(src)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.DBPath)
	assert.Equal(t, "metrics.prom", cfg.MetricsFile)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "missing file", file: filepath.Join(dir, "nope.yaml")},
		{name: "unsupported extension", file: writeFile(t, dir, "c.toml", "output = 1")},
		{name: "malformed yaml", file: writeFile(t, dir, "m.yaml", "output: [")},
		{name: "bad input format", file: writeFile(t, dir, "f.yaml", "input_format: jsonld")},
		{name: "negative cache", env: map[string]string{"OWLSYM_CACHE_SIZE": "-1"}},
		{name: "bad bool", env: map[string]string{"OWLSYM_CANONICAL": "maybe"}},
		{name: "bad level", env: map[string]string{"OWLSYM_LOG_LEVEL": "loud"}},
		{name: "bad log format", env: map[string]string{"OWLSYM_LOG_FORMAT": "xml"}},
		{name: "empty output", file: writeFile(t, dir, "e.yaml", `output: ""`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := isolated(t)
			src.File = tt.file
			if tt.env != nil {
				src.Environment = tt.env
			}
			_, err := Load(src)
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
