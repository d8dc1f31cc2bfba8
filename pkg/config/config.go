// Package config loads atdf-fields run configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chipdesc/atdf-go/pkg/atdf"
)

// Output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// Config is the run configuration of atdf-fields.
type Config struct {
	// Inputs are ATDF file paths or glob patterns.
	Inputs []string `yaml:"inputs"`

	// Output is the output file; empty means stdout.
	Output string `yaml:"output"`

	// Format is one of yaml, json, cbor.
	Format string `yaml:"format"`

	// Policy is the batch policy: fail-fast or collect.
	Policy string `yaml:"policy"`

	// Workers bounds parallel field extraction. 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// DiagnosticsLog is an optional .dlog file receiving diagnostics events.
	DiagnosticsLog string `yaml:"diagnosticsLog"`

	// Database is an optional SQLite file recording runs and their fields.
	Database string `yaml:"database"`

	// LogLevel is the operational log level: debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Format:   FormatYAML,
		Policy:   atdf.PolicyFailFast.String(),
		LogLevel: "info",
	}
}

// Parse parses a configuration from YAML bytes on top of Default.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load loads and parses a configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	switch c.Format {
	case FormatYAML, FormatJSON, FormatCBOR:
	default:
		return fmt.Errorf("invalid format %q (valid: yaml, json, cbor)", c.Format)
	}
	if _, err := atdf.ParseBatchPolicy(c.Policy); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// BatchPolicy returns the parsed batch policy.
func (c Config) BatchPolicy() atdf.BatchPolicy {
	p, _ := atdf.ParseBatchPolicy(c.Policy)
	return p
}

// ParseLogLevel parses an slog level name.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", s)
	}
}
