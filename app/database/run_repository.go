package database

import (
	"database/sql"
	"fmt"
	"time"
)

// RunRepository handles database operations for generation runs.
type RunRepository interface {
	RecordRun(run Run) error
	GetRecentRuns(limit int) ([]Run, error)
	GetRunStats() (*RunStats, error)
}

type runRepository struct {
	db *DB
}

func NewRunRepository(db *DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) RecordRun(run Run) error {
	degraded := 0
	if run.Degraded {
		degraded = 1
	}

	_, err := r.db.Exec(`
		INSERT INTO runs (started_at, duration_ms, post_count, degraded, error)
		VALUES (?, ?, ?, ?, ?)
	`, run.StartedAt.UTC().Format(time.RFC3339), run.DurationMs, run.PostCount, degraded, run.Error)

	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

func (r *runRepository) GetRecentRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, started_at, duration_ms, post_count, degraded, error, created_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *runRepository) GetRunStats() (*RunStats, error) {
	stats := &RunStats{}

	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(degraded), 0) FROM runs
	`).Scan(&stats.TotalRuns, &stats.DegradedRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to query run stats: %w", err)
	}

	var startedAt string
	var postCount int
	err = r.db.QueryRow(`
		SELECT started_at, post_count FROM runs ORDER BY started_at DESC LIMIT 1
	`).Scan(&startedAt, &postCount)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last run: %w", err)
	}

	if ts, err := time.Parse(time.RFC3339, startedAt); err == nil {
		stats.LastRunAt = &ts
	}
	stats.LastPostCount = postCount

	return stats, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var startedAt, createdAt string
	var degraded int

	if err := rows.Scan(&run.ID, &startedAt, &run.DurationMs, &run.PostCount, &degraded, &run.Error, &createdAt); err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Degraded = degraded != 0
	if ts, err := time.Parse(time.RFC3339, startedAt); err == nil {
		run.StartedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = ts
	}

	return run, nil
}
