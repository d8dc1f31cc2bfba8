// Package store persists extraction runs and their fields in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chipdesc/atdf-go/pkg/chip"
)

// Store provides SQLite persistence for extraction runs.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the database at path.
// Use ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		policy TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'running',
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		input_count INTEGER DEFAULT 0,
		field_count INTEGER DEFAULT 0,
		warning_count INTEGER DEFAULT 0,
		error_count INTEGER DEFAULT 0,
		error_message TEXT
	);

	CREATE TABLE IF NOT EXISTS fields (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		source TEXT NOT NULL,
		register TEXT,
		path TEXT NOT NULL,
		line INTEGER,
		name TEXT NOT NULL,
		description TEXT,
		low INTEGER NOT NULL,
		high INTEGER NOT NULL,
		access TEXT NOT NULL,
		restriction TEXT NOT NULL,
		field_cbor BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fields_run_id ON fields(run_id);
	CREATE INDEX IF NOT EXISTS idx_fields_name ON fields(name);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun records the start of a run.
func (s *Store) CreateRun(id, policy string, startedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO runs (id, policy, status, started_at)
		VALUES (?, ?, ?, ?)
	`, id, policy, RunStatusRunning, startedAt)
	return err
}

// CompleteRun stores the final counters. A non-empty errMsg marks the run failed.
func (s *Store) CompleteRun(id string, sum Summary, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := RunStatusCompleted
	if errMsg != "" {
		status = RunStatusFailed
	}

	_, err := s.db.Exec(`
		UPDATE runs
		SET status = ?, completed_at = ?, input_count = ?, field_count = ?,
		    warning_count = ?, error_count = ?, error_message = ?
		WHERE id = ?
	`, status, time.Now(), sum.Inputs, sum.Fields, sum.Warnings, sum.Errors, errMsg, id)
	return err
}

// AddRecords inserts records of a run in one transaction.
func (s *Store) AddRecords(runID string, records []Record) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO fields (run_id, source, register, path, line, name, description,
		                    low, high, access, restriction, field_cbor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		data, err := chip.EncodeField(r.Field)
		if err != nil {
			return fmt.Errorf("encoding field %s: %w", r.Path, err)
		}
		_, err = stmt.Exec(runID, r.Source, r.Register, r.Path, r.Line, r.Field.Name, r.Field.Description,
			r.Field.Range.Low, r.Field.Range.High, r.Field.Access.String(), r.Field.Restriction.String(), data)
		if err != nil {
			return fmt.Errorf("inserting field %s: %w", r.Path, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run by ID. It returns nil, nil when the run does not exist.
func (s *Store) GetRun(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := scanRun(s.db.QueryRow(selectRun+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// ListRuns retrieves runs, most recent first.
func (s *Store) ListRuns(limit, offset int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(selectRun+`
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// RunRecords returns the records of a run in insertion order.
func (s *Store) RunRecords(runID string) ([]Record, error) {
	return s.queryRecords(`WHERE run_id = ?`, runID)
}

// FindField returns every stored record whose field name equals name.
func (s *Store) FindField(name string) ([]Record, error) {
	return s.queryRecords(`WHERE name = ?`, name)
}

// DeleteRun deletes a run and its fields.
func (s *Store) DeleteRun(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id)
	return err
}

func (s *Store) queryRecords(where string, arg any) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT source, register, path, line, field_cbor FROM fields
		`+where+` ORDER BY id`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var register sql.NullString
		var line sql.NullInt64
		var data []byte
		if err := rows.Scan(&r.Source, &register, &r.Path, &line, &data); err != nil {
			return nil, err
		}
		r.Register = register.String
		r.Line = int(line.Int64)

		if r.Field, err = chip.DecodeField(data); err != nil {
			return nil, fmt.Errorf("field %s: %w", r.Path, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

const selectRun = `
	SELECT id, policy, status, started_at, completed_at,
	       input_count, field_count, warning_count, error_count, error_message
	FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var completedAt sql.NullTime
	var errMsg sql.NullString

	err := row.Scan(
		&run.ID, &run.Policy, &run.Status, &run.StartedAt, &completedAt,
		&run.Inputs, &run.Fields, &run.Warnings, &run.Errors, &errMsg,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	run.ErrorMessage = errMsg.String
	return &run, nil
}
