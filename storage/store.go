// Package storage persists audit run history in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"logsequence/report"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_runs (
	run_id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	total_ids INTEGER NOT NULL,
	total_events INTEGER NOT NULL,
	total_inconsistencies INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS inconsistencies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES audit_runs(run_id) ON DELETE CASCADE,
	correlation_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	message TEXT NOT NULL,
	source_file TEXT NOT NULL,
	line_no INTEGER NOT NULL,
	state TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_inconsistencies_run ON inconsistencies(run_id);
`

// Store is the SQLite-backed audit run history.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// RunRecord is one persisted audit run summary.
type RunRecord struct {
	RunID                string
	CreatedAt            time.Time
	TotalIDs             int
	TotalEvents          int
	TotalInconsistencies int
}

// Open opens (creating if necessary) the run-history database. WAL mode and
// foreign keys are enabled the same way on every open.
func Open(path string, logger *zap.SugaredLogger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	// Single writer keeps WAL mode safe without a separate read pool.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}

	logger.Debugw("Run-history store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// SaveRun persists one report atomically.
func (s *Store) SaveRun(ctx context.Context, r *report.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO audit_runs (run_id, created_at, total_ids, total_events, total_inconsistencies)
		 VALUES (?, ?, ?, ?, ?)`,
		r.RunID, r.CreatedAt.Format(time.RFC3339), r.Summary.TotalIDs,
		r.Summary.TotalEvents, r.Summary.TotalInconsistencies)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, inc := range r.Inconsistencies {
		ev := inc.Events[0]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO inconsistencies (run_id, correlation_id, kind, message, source_file, line_no, state)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, inc.CorrelationID, string(inc.Kind), inc.Message, ev.Source, ev.LineNo, ev.State)
		if err != nil {
			return fmt.Errorf("failed to insert inconsistency: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	s.logger.Infow("Audit run persisted", "run_id", r.RunID,
		"inconsistencies", r.Summary.TotalInconsistencies)
	return nil
}

// ListRuns returns persisted runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, created_at, total_ids, total_events, total_inconsistencies
		 FROM audit_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created string
		if err := rows.Scan(&rec.RunID, &created, &rec.TotalIDs, &rec.TotalEvents, &rec.TotalInconsistencies); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("invalid created_at for run %s: %w", rec.RunID, err)
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// InconsistencyRecord is one persisted inconsistency row.
type InconsistencyRecord struct {
	CorrelationID string
	Kind          string
	Message       string
	SourceFile    string
	LineNo        int
	State         string
}

// GetRunInconsistencies returns the inconsistencies of one run in insertion
// order.
func (s *Store) GetRunInconsistencies(ctx context.Context, runID string) ([]InconsistencyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT correlation_id, kind, message, source_file, line_no, state
		 FROM inconsistencies WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inconsistencies: %w", err)
	}
	defer rows.Close()

	var recs []InconsistencyRecord
	for rows.Next() {
		var rec InconsistencyRecord
		if err := rows.Scan(&rec.CorrelationID, &rec.Kind, &rec.Message, &rec.SourceFile, &rec.LineNo, &rec.State); err != nil {
			return nil, fmt.Errorf("failed to scan inconsistency: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
