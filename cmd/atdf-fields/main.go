// Command atdf-fields extracts every register bitfield from ATDF
// device-description files and writes them as YAML, JSON or CBOR.
//
// Usage:
//
//	atdf-fields [flags] <file.atdf>...
//
// Examples:
//
//	# Print all fields of one device as YAML
//	atdf-fields ATSAMD21G18A.atdf
//
//	# Extract a whole pack, keep going past bad fields, record diagnostics
//	atdf-fields -keep-going -diag-log pack.dlog -format cbor -o pack.cbor 'atdf/*.atdf'
//
//	# Keep a history of runs for later inspection with atdf-diag runs
//	atdf-fields -keep-going -db fields.db 'atdf/*.atdf'
//
//	# Use a config file; flags override its values
//	atdf-fields -config atdf-fields.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chipdesc/atdf-go/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	format := flag.String("format", "", "Output format (yaml, json, cbor)")
	output := flag.String("o", "", "Output file (default: stdout)")
	keepGoing := flag.Bool("keep-going", false, "Collect failing fields instead of stopping at the first one")
	workers := flag.Int("workers", -1, "Parallel workers per document (0: GOMAXPROCS)")
	diagLog := flag.String("diag-log", "", "Append diagnostics events to this .dlog file")
	database := flag.String("db", "", "Record the run and its fields in this SQLite database")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: atdf-fields [flags] <file.atdf>...")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	// Flags override the config file
	cfg.Inputs = append(cfg.Inputs, flag.Args()...)
	if *format != "" {
		cfg.Format = *format
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *keepGoing {
		cfg.Policy = "collect"
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if *diagLog != "" {
		cfg.DiagnosticsLog = *diagLog
	}
	if *database != "" {
		cfg.Database = *database
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if len(cfg.Inputs) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
