package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chipdesc/atdf-go/pkg/atdf"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, FormatYAML, cfg.Format)
	assert.Equal(t, atdf.PolicyFailFast, cfg.BatchPolicy())
}

func TestParseFull(t *testing.T) {
	yaml := `
inputs:
  - devices/*.atdf
  - extra/ATSAMD21G18A.atdf
output: fields.cbor
format: cbor
policy: collect
workers: 4
diagnosticsLog: run.dlog
database: fields.db
logLevel: debug
`
	cfg, err := Parse([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, []string{"devices/*.atdf", "extra/ATSAMD21G18A.atdf"}, cfg.Inputs)
	assert.Equal(t, "fields.cbor", cfg.Output)
	assert.Equal(t, FormatCBOR, cfg.Format)
	assert.Equal(t, atdf.PolicyCollect, cfg.BatchPolicy())
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "run.dlog", cfg.DiagnosticsLog)
	assert.Equal(t, "fields.db", cfg.Database)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("workers: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, cfg.Format)
	assert.Equal(t, "fail-fast", cfg.Policy)
	assert.Equal(t, 2, cfg.Workers)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "colour: red\n"},
		{"bad format", "format: xml\n"},
		{"bad policy", "policy: skip\n"},
		{"negative workers", "workers: -1\n"},
		{"bad level", "logLevel: loud\n"},
		{"not yaml", "inputs: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atdf-fields.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
