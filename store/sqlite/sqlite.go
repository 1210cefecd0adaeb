/*
Package sqlite provides the SQLite-backed capture store.

PURPOSE:
  Every webhook invocation is captured as an append-only run record:
  who asked, what the upstream returned, what was resolved, and how it
  ended. Runs are the audit trail used to reconstruct why a particular
  pattern won for an employee on a given day.

  This is NOT a cache. Resolution is recomputed on every request; the
  stored resolved JSON is a historical artifact, never read back into
  the resolution path.

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statements on the runs table. A re-delivered
  webhook produces a new run with a new id.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety over the single connection.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/workpattern.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api/handlers.go: writes a run per webhook invocation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists webhook run records.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Runs (append-only webhook audit trail)
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		employee_http_status INTEGER,
		workpattern_http_status INTEGER,
		start_date TEXT,
		workpattern_body TEXT,
		resolved_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_employee
		ON runs(employee_id);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status
		ON runs(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUN RECORDS
// =============================================================================

// RunRecord is one captured webhook invocation.
type RunRecord struct {
	ID         string
	EmployeeID string
	Status     string // "ok" or "error"
	Error      string

	EmployeeHTTPStatus    int
	WorkPatternHTTPStatus int

	StartDate       string // reference date extracted from employee detail
	WorkPatternBody string // raw upstream pattern payload
	ResolvedJSON    string // serialized resolution result, empty on failure

	CreatedAt time.Time
}

// SaveRun appends a run record.
func (s *Store) SaveRun(ctx context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, employee_id, status, error,
			employee_http_status, workpattern_http_status,
			start_date, workpattern_body, resolved_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.EmployeeID, run.Status, run.Error,
		run.EmployeeHTTPStatus, run.WorkPatternHTTPStatus,
		run.StartDate, run.WorkPatternBody, run.ResolvedJSON,
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun fetches one run by id. Returns nil when not found.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, status, error,
		       employee_http_status, workpattern_http_status,
		       start_date, workpattern_body, resolved_json, created_at
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, status, error,
		       employee_http_status, workpattern_http_status,
		       start_date, workpattern_body, resolved_json, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*RunRecord, error) {
	var run RunRecord
	var errText, startDate, body, resolved sql.NullString
	var createdAt string

	err := s.Scan(
		&run.ID, &run.EmployeeID, &run.Status, &errText,
		&run.EmployeeHTTPStatus, &run.WorkPatternHTTPStatus,
		&startDate, &body, &resolved, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	run.Error = errText.String
	run.StartDate = startDate.String
	run.WorkPatternBody = body.String
	run.ResolvedJSON = resolved.String
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &run, nil
}
