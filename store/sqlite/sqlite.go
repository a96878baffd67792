/*
Package sqlite persists resolved extraction runs in SQLite.

PURPOSE:
  A run records which reporting period, follow-up window and dataset an
  extraction job was parameterised with, so later jobs and audits can look
  the exact dates up by id or by period label instead of recomputing them.

KEY TABLES:
  runs: one row per saved EventParams plus the dataset it was used for

INVARIANT:
  Rows are decoded back through period.New, so a stored row can never
  produce an EventParams the engine would not construct itself.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety around the single *sql.DB.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block the
  single writer.

USAGE:
  store, err := sqlite.New("./data/periods.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  run, err := store.SaveRun(ctx, "births", ep)
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/period"
)

// Store implements run persistence using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Run is a saved extraction parameter set.
type Run struct {
	ID        string
	Dataset   string
	Params    *period.EventParams
	CreatedAt time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
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

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		dataset TEXT NOT NULL,
		label TEXT NOT NULL,
		tagged_label TEXT NOT NULL,
		year INTEGER NOT NULL,
		period_type TEXT NOT NULL,
		period_number INTEGER NOT NULL,
		wait_months INTEGER NOT NULL,
		wait_days INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		etterslep_start TEXT NOT NULL,
		etterslep_end TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_tagged_label
		ON runs(tagged_label);
	CREATE INDEX IF NOT EXISTS idx_runs_dataset_created
		ON runs(dataset, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUNS
// =============================================================================

// SaveRun stores ep for dataset under a fresh id.
func (s *Store) SaveRun(ctx context.Context, dataset string, ep *period.EventParams) (*Run, error) {
	if ep == nil {
		return nil, errors.New("save run: nil event params")
	}
	if dataset == "" {
		return nil, errors.New("save run: dataset is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run := &Run{
		ID:        uuid.NewString(),
		Dataset:   dataset,
		Params:    ep,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	q := ep.ToQueryParams()
	wait := ep.Wait()

	query := `
		INSERT INTO runs (id, dataset, label, tagged_label, year, period_type, period_number,
		                  wait_months, wait_days, start_date, end_date, etterslep_start, etterslep_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, dataset, ep.PeriodLabel(), ep.TaggedLabel(), ep.Year(), ep.Type().String(), ep.Number(),
		wait.Months, wait.Days,
		q.StartDate.String(), q.EndDate.String(), q.EtterslepStart.String(), q.EtterslepEnd.String(),
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}
	return run, nil
}

// GetRun retrieves a run by ID. Returns nil, nil if it does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs, err := s.queryRuns(ctx, selectRuns+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// ListRuns returns the most recent runs first. An empty dataset lists all.
func (s *Store) ListRuns(ctx context.Context, dataset string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	if dataset == "" {
		return s.queryRuns(ctx, selectRuns+" ORDER BY created_at DESC, id LIMIT ?", limit)
	}
	return s.queryRuns(ctx, selectRuns+" WHERE dataset = ? ORDER BY created_at DESC, id LIMIT ?", dataset, limit)
}

// FindByLabel returns runs whose tagged label equals label, newest first.
func (s *Store) FindByLabel(ctx context.Context, label string) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRuns(ctx, selectRuns+" WHERE tagged_label = ? ORDER BY created_at DESC, id", label)
}

// HasRun reports whether dataset already has a run for the tagged label with
// the given wait period.
func (s *Store) HasRun(ctx context.Context, dataset, taggedLabel string, wait period.WaitPeriod) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM runs
		WHERE dataset = ? AND tagged_label = ? AND wait_months = ? AND wait_days = ?
	`
	var count int
	err := s.db.QueryRowContext(ctx, query, dataset, taggedLabel, wait.Months, wait.Days).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check run: %w", err)
	}
	return count > 0, nil
}

// RunsCovering returns runs whose primary window contains day.
func (s *Store) RunsCovering(ctx context.Context, day calendar.Date) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRuns(ctx, selectRuns+" WHERE start_date <= ? AND end_date >= ? ORDER BY start_date, id",
		day.String(), day.String())
}

// Reset clears all runs (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM runs")
	return err
}

const selectRuns = `
	SELECT id, dataset, year, period_type, period_number, wait_months, wait_days, created_at
	FROM runs`

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run                        Run
		year, number, months, days int
		typeName, createdAt        string
	)
	if err := rows.Scan(&run.ID, &run.Dataset, &year, &typeName, &number, &months, &days, &createdAt); err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	t, err := period.ParseType(typeName)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", run.ID, err)
	}
	ep, err := period.New(year, t, number, period.WaitPeriod{Months: months, Days: days})
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", run.ID, err)
	}
	run.Params = ep
	if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return Run{}, fmt.Errorf("run %s: invalid created_at: %w", run.ID, err)
	}
	return run, nil
}
