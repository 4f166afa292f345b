// Package model defines the domain types shared across the application.
package model

import "time"

// JobMode selects between a destructive full re-sync and an incremental one.
type JobMode string

// Sync job modes.
const (
	ModeFull        JobMode = "full"
	ModeIncremental JobMode = "incremental"
)

// JobState is the client-side lifecycle state of a sync job.
type JobState string

// Job lifecycle states. Starting exists only for the duration of the start
// request's network round-trip.
const (
	StateIdle      JobState = "idle"
	StateStarting  JobState = "starting"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// Terminal reports whether the state ends a job's lifecycle.
func (s JobState) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// DateRange bounds a sync or report query period.
type DateRange struct {
	From time.Time
	To   time.Time
}

// SyncStatus is the backend's view of its single current job, as returned
// by GET /api/sync/status.
type SyncStatus struct {
	Status         string  `json:"status"`
	Progress       float64 `json:"progress"`
	CurrentTable   string  `json:"current_table"`
	CurrentCompany string  `json:"current_company"`
	RowsProcessed  int64   `json:"rows_processed"`
	ErrorMessage   string  `json:"error_message"`
}

// ProgressUpdate is forwarded to a progress sink on every poll tick.
type ProgressUpdate struct {
	Company       string
	Table         string
	Percent       float64
	RowsProcessed int64
}

// BatchItem names one company in a batch sync, with an optional period
// override. A nil DateRange lets the backend auto-detect the books period.
type BatchItem struct {
	Company   string
	DateRange *DateRange
}

// SyncRun is one finished (or failed) sync job as recorded in the local
// history log.
type SyncRun struct {
	ID            int64
	Company       string
	Mode          JobMode
	Status        JobState
	RowsProcessed int64
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    time.Time
}
