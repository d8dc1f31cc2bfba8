// Package log provides the structured diagnostics channel for field extraction.
//
// Diagnostics are separate from operational logging (slog): they form a
// machine-readable record of every warning and failure found in the input
// documents, each tied to the element path and line it came from.
//
// # Basic Usage
//
// Callers configure diagnostics by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Diagnostics = log.NewSlogAdapter(slog.Default())
//
//	// For tooling: write to a binary file
//	cfg.Diagnostics, _ = log.NewFileLogger("samd21.dlog")
//
//	// Both: use MultiLogger
//	cfg.Diagnostics = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are tagged with the stage that produced them:
//   - Load: reading and parsing input documents
//   - Field: building a single bitfield
//   - Output: writing extracted fields
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .dlog extension.
// The atdf-diag CLI tool provides viewing, statistics and export.
package log
