package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/chipdesc/atdf-go/pkg/atdf"
	"github.com/chipdesc/atdf-go/pkg/chip"
	"github.com/chipdesc/atdf-go/pkg/config"
	"github.com/chipdesc/atdf-go/pkg/log"
	"github.com/chipdesc/atdf-go/pkg/store"
	"github.com/chipdesc/atdf-go/pkg/version"
)

// run extracts fields from every input and writes them to cfg.Output, or to
// stdout when no output file is set. Operational logs go to stderr. When
// cfg.Database is set the run and its fields are also stored there.
func run(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) (err error) {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	session := uuid.New().String()
	collector := log.NewCollectingLogger()
	sinks := []log.Logger{log.NewSlogAdapter(logger), collector}
	if cfg.DiagnosticsLog != "" {
		fileLog, err := log.NewFileLogger(cfg.DiagnosticsLog)
		if err != nil {
			return fmt.Errorf("opening diagnostics log: %w", err)
		}
		defer fileLog.Close()
		sinks = append(sinks, fileLog)
	}
	diag := log.NewMultiLogger(sinks...)

	policy := cfg.BatchPolicy()
	parser := atdf.NewParser(atdf.Config{
		Diagnostics: diag,
		SessionID:   session,
		Policy:      policy,
		Workers:     cfg.Workers,
	})

	paths, err := expandInputs(cfg.Inputs)
	if err != nil {
		return err
	}

	records := make([]store.Record, 0)
	if cfg.Database != "" {
		db, openErr := store.Open(cfg.Database)
		if openErr != nil {
			return openErr
		}
		defer db.Close()
		if openErr := db.CreateRun(session, policy.String(), time.Now()); openErr != nil {
			return fmt.Errorf("recording run: %w", openErr)
		}
		defer func() {
			err = completeRun(db, session, records, err, store.Summary{
				Inputs:   len(paths),
				Fields:   len(records),
				Warnings: collector.Count(log.SeverityWarning),
				Errors:   collector.Count(log.SeverityError),
			})
		}()
	}

	var failures []error
	for _, path := range paths {
		logger.Debug("loading document", "source", path, "session_id", session)

		root, err := atdf.LoadDocument(path)
		if err != nil {
			diag.Log(log.Event{
				Timestamp: time.Now(),
				SessionID: session,
				Severity:  log.SeverityError,
				Stage:     log.StageLoad,
				Source:    path,
				Message:   err.Error(),
			})
			if policy == atdf.PolicyFailFast {
				records = records[:0]
				return err
			}
			failures = append(failures, err)
			continue
		}

		checkSchema(diag, session, root)

		extracted, err := parser.ExtractFields(ctx, root.FindAll(atdf.BitfieldElement))
		if err != nil {
			if policy == atdf.PolicyFailFast {
				records = records[:0]
				return err
			}
			failures = append(failures, err)
		}
		for _, x := range extracted {
			records = append(records, newRecord(x))
		}
		logger.Info("extracted fields", "source", path, "fields", len(extracted))
	}

	if err := writeOutput(cfg, records, stdout); err != nil {
		diag.Log(log.Event{
			Timestamp: time.Now(),
			SessionID: session,
			Severity:  log.SeverityError,
			Stage:     log.StageOutput,
			Source:    cfg.Output,
			Message:   err.Error(),
		})
		return err
	}

	logger.Info("done",
		"session_id", session,
		"fields", len(records),
		"warnings", collector.Count(log.SeverityWarning),
		"errors", collector.Count(log.SeverityError),
	)

	if len(failures) > 0 {
		return fmt.Errorf("%d input(s) had failing fields: %w", len(failures), errors.Join(failures...))
	}
	return nil
}

// completeRun stores records and the final state of the run. It returns
// runErr, or the storage error when the run itself succeeded.
func completeRun(db *store.Store, session string, records []store.Record, runErr error, sum store.Summary) error {
	if err := db.AddRecords(session, records); err != nil && runErr == nil {
		runErr = fmt.Errorf("storing fields: %w", err)
	}
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	if err := db.CompleteRun(session, sum, msg); err != nil && runErr == nil {
		runErr = fmt.Errorf("recording run: %w", err)
	}
	return runErr
}

// checkSchema warns when the document declares a schema version the
// extractor was not written for. Extraction still proceeds.
func checkSchema(diag log.Logger, session string, root *atdf.Element) {
	declared, _ := root.LookupAttr(version.SchemaAttr)
	if err := version.Check(declared); err != nil {
		diag.Log(log.Event{
			Timestamp: time.Now(),
			SessionID: session,
			Severity:  log.SeverityWarning,
			Stage:     log.StageLoad,
			Source:    root.Source(),
			Element:   root.Ref(),
			Attribute: version.SchemaAttr,
			Message:   err.Error(),
		})
	}
}

func newRecord(x atdf.Extracted) store.Record {
	r := store.Record{
		Source: x.Element.Source(),
		Path:   x.Element.Path(),
		Line:   x.Element.Line,
		Field:  x.Field,
	}
	if x.Element.Parent != nil {
		r.Register, _ = x.Element.Parent.LookupAttr("name")
	}
	return r
}

// expandInputs resolves glob patterns. A pattern without matches is an error.
func expandInputs(inputs []string) ([]string, error) {
	var paths []string
	for _, in := range inputs {
		matches, err := filepath.Glob(in)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", in, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no input matches %q", in)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

func writeOutput(cfg config.Config, records []store.Record, stdout io.Writer) (err error) {
	w := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	return encodeRecords(w, cfg.Format, records)
}

func encodeRecords(w io.Writer, format string, records []store.Record) error {
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case config.FormatCBOR:
		enc := chip.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encoding cbor: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
