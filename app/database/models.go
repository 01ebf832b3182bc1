package database

import (
	"time"
)

// Run records one generation run.
type Run struct {
	ID         int64
	StartedAt  time.Time
	DurationMs int64
	PostCount  int
	Degraded   bool // post fetch failed and the run fell back to an empty list
	Error      string
	CreatedAt  time.Time
}

// RunStats summarizes the run history for the stats endpoint.
type RunStats struct {
	TotalRuns     int
	DegradedRuns  int
	LastRunAt     *time.Time
	LastPostCount int
}
