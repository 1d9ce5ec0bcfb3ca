// Package catalog persists a small amount of state across runs: the most
// recently used import source and organize destination, and a journal of past
// runs (what action, how many files touched, how long it took). It is not the
// photo index itself — the Organizer rebuilds that from disk on every run,
// per catalog §5/§6 — this package only remembers history and last-used
// paths.
//
// Adapted from bleemesser-photosort/util/library.go's Library type: same
// CreateLibrary/OpenLibrary-style open function, same sql.Open/db.Exec/
// db.Begin usage, but backed by glebarez/go-sqlite (a pure-Go driver)
// instead of mattn/go-sqlite3, since the teacher's go.mod required the
// cgo driver while its source imported the pure-Go one — see DESIGN.md
// Open Question 1.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "github.com/glebarez/go-sqlite"
)

// Catalog wraps the journal database. It is not safe for concurrent use by
// multiple processes; a single CLI invocation opens, uses, and closes one.
type Catalog struct {
	db   *sql.DB
	path string
}

// Open creates dir and the journal database inside it if they do not
// already exist, then opens it. Safe to call repeatedly against the same
// dir.
func Open(dir string) (*Catalog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory %s: %w", dir, err)
	}
	dbPath := filepath.Join(dir, "catalog.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to catalog database: %w", err)
	}

	c := &Catalog{db: db, path: dbPath}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Catalog) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS config (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL UNIQUE,
			action      TEXT NOT NULL,
			source      TEXT NOT NULL,
			destination TEXT,
			started_at  TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			processed   INTEGER NOT NULL DEFAULT 0,
			moved       INTEGER NOT NULL DEFAULT 0,
			trashed     INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			failed      INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrating catalog database: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// SetConfig stores a key/value pair, overwriting any existing value. Used
// to remember the last import source and organize destination the CLI was
// invoked with; the CLI does not read them back, and every action still
// takes its directories as arguments.
func (c *Catalog) SetConfig(key, value string) error {
	_, err := c.db.Exec(
		`INSERT INTO config (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing config %s: %w", key, err)
	}
	return nil
}

// GetConfig returns the stored value for key, or ok=false if never set.
func (c *Catalog) GetConfig(key string) (value string, ok bool, err error) {
	err = c.db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading config %s: %w", key, err)
	}
	return value, true, nil
}

// Run tracks one in-progress invocation's journal row. StartRun returns one;
// the caller fills in counts as the pipeline stages complete and calls
// Finish exactly once.
type Run struct {
	ID        string
	Action    string
	Source    string
	Dest      string
	startedAt time.Time
	cat       *Catalog
}

// StartRun opens a new journal entry for action against source (and dest,
// if the action has one; pass "" otherwise) and returns a handle to it. The
// run ID is a fresh UUID, matching the rest of the domain's identifier
// style (Live Photo ContentIdentifier is also UUID-shaped).
func (c *Catalog) StartRun(action, source, dest string) (*Run, error) {
	r := &Run{
		ID:        uuid.NewString(),
		Action:    action,
		Source:    source,
		Dest:      dest,
		startedAt: time.Now(),
		cat:       c,
	}
	var destArg any
	if dest != "" {
		destArg = dest
	}
	_, err := c.db.Exec(
		`INSERT INTO runs (run_id, action, source, destination, started_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, action, source, destArg, r.startedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("starting run journal entry: %w", err)
	}
	return r, nil
}

// Counts summarizes what a run did, reported to Finish.
type Counts struct {
	Processed int
	Moved     int
	Trashed   int
}

// Finish closes out the run's journal entry with final counts and elapsed
// duration. failed marks the run as having ended in error.
func (r *Run) Finish(counts Counts, failed bool) error {
	finishedAt := time.Now()
	duration := finishedAt.Sub(r.startedAt)
	failedInt := 0
	if failed {
		failedInt = 1
	}
	_, err := r.cat.db.Exec(
		`UPDATE runs SET finished_at = ?, processed = ?, moved = ?, trashed = ?, duration_ms = ?, failed = ? WHERE run_id = ?`,
		finishedAt, counts.Processed, counts.Moved, counts.Trashed, duration.Milliseconds(), failedInt, r.ID,
	)
	if err != nil {
		return fmt.Errorf("closing run journal entry %s: %w", r.ID, err)
	}
	return nil
}

// RunSummary is one row of run history, as returned by RecentRuns.
type RunSummary struct {
	ID         string
	Action     string
	Source     string
	Dest       string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Processed  int
	Moved      int
	Trashed    int
	Duration   time.Duration
	Failed     bool
}

// RecentRuns returns the most recent runs, newest first, capped at limit.
func (c *Catalog) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := c.db.Query(
		`SELECT run_id, action, source, destination, started_at, finished_at, processed, moved, trashed, duration_ms, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying run history: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var dest sql.NullString
		var durationMs int64
		var failedInt int
		if err := rows.Scan(&s.ID, &s.Action, &s.Source, &dest, &s.StartedAt, &s.FinishedAt, &s.Processed, &s.Moved, &s.Trashed, &durationMs, &failedInt); err != nil {
			return nil, fmt.Errorf("scanning run history row: %w", err)
		}
		s.Dest = dest.String
		s.Duration = time.Duration(durationMs) * time.Millisecond
		s.Failed = failedInt != 0
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run history: %w", err)
	}
	return out, nil
}
