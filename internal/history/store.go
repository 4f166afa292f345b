// Package history keeps a local audit log of sync runs in SQLite, so
// "what synced when, and how did it end" survives across sessions.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tallybridge/tallybridge/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store is the SQLite-backed sync-run log.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (or creates) the log database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("history: dbPath is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sync_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			company TEXT NOT NULL,
			mode TEXT NOT NULL,
			status TEXT NOT NULL,
			rows_processed INTEGER DEFAULT 0,
			error_message TEXT,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sync_runs_company ON sync_runs(company);
		CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return nil
}

// Record appends one finished run to the log.
func (s *Store) Record(ctx context.Context, run model.SyncRun) error {
	if run.Company == "" {
		return fmt.Errorf("history: run company is required")
	}
	if !run.Status.Terminal() {
		return fmt.Errorf("history: only settled runs are recorded, got %q", run.Status)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_runs (company, mode, status, rows_processed, error_message, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Company, string(run.Mode), string(run.Status),
		run.RowsProcessed, run.ErrorMessage,
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first. company filters when
// non-empty; limit caps the result (default 20).
func (s *Store) Recent(ctx context.Context, company string, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, company, mode, status, rows_processed, COALESCE(error_message, ''), started_at, finished_at
		FROM sync_runs`
	args := []any{}
	if company != "" {
		query += ` WHERE company = ?`
		args = append(args, company)
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.SyncRun
	for rows.Next() {
		var run model.SyncRun
		var mode, status string
		if err := rows.Scan(&run.ID, &run.Company, &mode, &status,
			&run.RowsProcessed, &run.ErrorMessage, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		run.Mode = model.JobMode(mode)
		run.Status = model.JobState(status)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LastSuccessful returns the most recent completed run for a company, or
// sql.ErrNoRows when the company has never finished a sync.
func (s *Store) LastSuccessful(ctx context.Context, company string) (*model.SyncRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, company, mode, status, rows_processed, COALESCE(error_message, ''), started_at, finished_at
		FROM sync_runs
		WHERE company = ? AND status = ?
		ORDER BY started_at DESC, id DESC LIMIT 1`,
		company, string(model.StateCompleted))

	var run model.SyncRun
	var mode, status string
	if err := row.Scan(&run.ID, &run.Company, &mode, &status,
		&run.RowsProcessed, &run.ErrorMessage, &run.StartedAt, &run.FinishedAt); err != nil {
		return nil, err
	}
	run.Mode = model.JobMode(mode)
	run.Status = model.JobState(status)
	return &run, nil
}

// Recorder is a progress sink that stamps runs into the store as the
// controller settles them. Pair it with a display sink via a fan-out so
// persistence and display stay decoupled.
type Recorder struct {
	store     *Store
	startedAt time.Time
	mode      model.JobMode
	lastRows  int64
}

// NewRecorder builds a run recorder for one job start.
func NewRecorder(store *Store, mode model.JobMode) *Recorder {
	return &Recorder{
		store:     store,
		mode:      mode,
		startedAt: time.Now(),
	}
}

// Progress tracks the latest processed-row count.
func (r *Recorder) Progress(update model.ProgressUpdate) {
	r.lastRows = update.RowsProcessed
}

// Completed records a successful run.
func (r *Recorder) Completed(company string) {
	r.record(company, model.StateCompleted, "")
}

// Failed records a failed run with its backend error message.
func (r *Recorder) Failed(company, errorMessage string) {
	r.record(company, model.StateFailed, errorMessage)
}

// Cancelled records a cancelled run.
func (r *Recorder) Cancelled(company string) {
	r.record(company, model.StateCancelled, "")
}

func (r *Recorder) record(company string, status model.JobState, errorMessage string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = r.store.Record(ctx, model.SyncRun{
		Company:       company,
		Mode:          r.mode,
		Status:        status,
		RowsProcessed: r.lastRows,
		ErrorMessage:  errorMessage,
		StartedAt:     r.startedAt,
		FinishedAt:    time.Now(),
	})
}
