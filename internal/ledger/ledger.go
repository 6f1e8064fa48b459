// Package ledger keeps a SQLite record of generation runs and the pages each
// run produced.
package ledger

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/zellyn/pylearn/internal/build"
)

//go:embed migrations/*.sql
var migrations embed.FS

const timeFormat = time.RFC3339Nano

// Ledger is an open ledger database.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the ledger at path and applies pending
// migrations.
func Open(ctx context.Context, path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	// sqlite allows one writer; build workers record concurrently
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Ledger{db: db, now: time.Now}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrating ledger: %w", err)
	}
	return nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RunInfo describes a recorded run.
type RunInfo struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time // zero while the run is in progress
	ManifestDigest string
	Total          int
	Created        int
}

// Artifact is one page attempt within a run.
type Artifact struct {
	LessonID string
	Source   string
	Bytes    int
	Digest   string
	Error    string
}

// Run is an in-progress run. It implements build.Recorder.
type Run struct {
	ID     string
	ledger *Ledger
}

var _ build.Recorder = (*Run)(nil)

// BeginRun inserts a new run for a manifest with the given digest.
func (l *Ledger) BeginRun(ctx context.Context, manifestDigest string, total int) (*Run, error) {
	id := uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, manifest_digest, total) VALUES (?, ?, ?, ?)`,
		id, l.now().UTC().Format(timeFormat), manifestDigest, total)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return &Run{ID: id, ledger: l}, nil
}

// Record stores the outcome for one lesson.
func (r *Run) Record(ctx context.Context, res build.Result) error {
	var errText sql.NullString
	if res.Err != nil {
		errText = sql.NullString{String: res.Err.Error(), Valid: true}
	}
	_, err := r.ledger.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO artifacts (run_id, lesson_id, source, bytes, digest, error) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, res.ID, res.Source, res.Bytes, res.Digest, errText)
	if err != nil {
		return fmt.Errorf("recording %s: %w", res.ID, err)
	}
	return nil
}

// Finish stamps the run as complete with its created count.
func (r *Run) Finish(ctx context.Context, created int) error {
	_, err := r.ledger.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, created = ? WHERE id = ?`,
		r.ledger.now().UTC().Format(timeFormat), created, r.ID)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// Runs lists up to limit runs, newest first. A limit of zero or less lists
// all runs.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, manifest_digest, total, created
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var (
			info     RunInfo
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&info.ID, &started, &finished, &info.ManifestDigest, &info.Total, &info.Created); err != nil {
			return nil, err
		}
		if info.StartedAt, err = time.Parse(timeFormat, started); err != nil {
			return nil, fmt.Errorf("run %s: %w", info.ID, err)
		}
		if finished.Valid {
			if info.FinishedAt, err = time.Parse(timeFormat, finished.String); err != nil {
				return nil, fmt.Errorf("run %s: %w", info.ID, err)
			}
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Artifacts lists the pages recorded for a run, ordered by lesson id.
func (l *Ledger) Artifacts(ctx context.Context, runID string) ([]Artifact, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT lesson_id, source, bytes, digest, error FROM artifacts WHERE run_id = ? ORDER BY lesson_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	defer rows.Close()

	var out []Artifact
	for rows.Next() {
		var (
			a       Artifact
			errText sql.NullString
		)
		if err := rows.Scan(&a.LessonID, &a.Source, &a.Bytes, &a.Digest, &errText); err != nil {
			return nil, err
		}
		a.Error = errText.String
		out = append(out, a)
	}
	return out, rows.Err()
}
