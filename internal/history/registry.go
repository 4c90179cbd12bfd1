// Package history keeps a SQLite log of report generations.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Registry records generation runs backed by SQLite.
type Registry struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	dsn := path + "?" + url.Values{
		"_pragma": []string{
			"busy_timeout(30000)",
			"journal_mode(WAL)",
			"synchronous(NORMAL)",
		},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	r := &Registry{db: db}
	if err := r.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Registry) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL DEFAULT '',
		output      TEXT NOT NULL DEFAULT '',
		profile     TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		candidates  INTEGER NOT NULL DEFAULT 0,
		front_pages INTEGER NOT NULL DEFAULT 0,
		body_pages  INTEGER NOT NULL DEFAULT 0,
		total_pages INTEGER NOT NULL DEFAULT 0,
		size_bytes  INTEGER NOT NULL DEFAULT 0,
		error       TEXT NOT NULL DEFAULT '',
		started_at  INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("init history schema: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *Registry) Ping() error {
	return r.db.Ping()
}

// Close closes the underlying database connection.
func (r *Registry) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Record inserts a run, assigning an ID and timestamps when unset.
func (r *Registry) Record(run *Run) error {
	if run == nil {
		return fmt.Errorf("run is nil")
	}
	if run.ID == "" {
		run.ID = ulid.Make().String()
	}
	now := time.Now().UTC()
	if run.FinishedAt.IsZero() {
		run.FinishedAt = now
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}
	if run.Status == "" {
		run.Status = StatusSucceeded
	}

	_, err := r.db.Exec(`
		INSERT INTO runs (
			id, source, output, profile, status,
			candidates, front_pages, body_pages, total_pages, size_bytes,
			error, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Output, run.Profile, string(run.Status),
		run.Candidates, run.FrontPages, run.BodyPages, run.TotalPages, run.SizeBytes,
		run.Error, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

const runColumns = `id, source, output, profile, status,
	candidates, front_pages, body_pages, total_pages, size_bytes,
	error, started_at, finished_at`

// Get retrieves a run by ID. A missing run returns nil without error.
func (r *Registry) Get(id string) (*Run, error) {
	row := r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// List returns the most recent runs first. limit <= 0 returns all.
func (r *Registry) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// ListByStatus returns runs with the given outcome, most recent first.
func (r *Registry) ListByStatus(status Status) ([]*Run, error) {
	rows, err := r.db.Query(`SELECT `+runColumns+` FROM runs WHERE status = ? ORDER BY started_at DESC, id DESC`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list runs by status: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// Summarize totals the recorded runs. Pages and bytes count successful runs.
func (r *Registry) Summarize() (Summary, error) {
	var s Summary
	row := r.db.QueryRow(`SELECT
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = ? THEN total_pages ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = ? THEN size_bytes ELSE 0 END), 0)
		FROM runs`,
		string(StatusSucceeded), string(StatusFailed), string(StatusSucceeded), string(StatusSucceeded))
	if err := row.Scan(&s.Succeeded, &s.Failed, &s.Pages, &s.Bytes); err != nil {
		return Summary{}, fmt.Errorf("summarize runs: %w", err)
	}
	return s, nil
}

// Prune deletes runs started before cutoff and returns how many went.
func (r *Registry) Prune(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM runs WHERE started_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

// scanner is an interface satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var status string
	var startedAt, finishedAt int64

	err := s.Scan(
		&run.ID, &run.Source, &run.Output, &run.Profile, &status,
		&run.Candidates, &run.FrontPages, &run.BodyPages, &run.TotalPages, &run.SizeBytes,
		&run.Error, &startedAt, &finishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}

	run.Status = Status(status)
	run.StartedAt = time.UnixMilli(startedAt).UTC()
	run.FinishedAt = time.UnixMilli(finishedAt).UTC()
	return &run, nil
}

func scanRuns(rows *sql.Rows) ([]*Run, error) {
	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
