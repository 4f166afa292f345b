// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/tallybridge/tallybridge/internal/model"
)

// SyncBackend is the contract for the backend's sync-control endpoints.
type SyncBackend interface {
	// StartFull wipes and re-syncs a company. The date range is optional;
	// when nil the backend auto-detects the books period from Tally.
	StartFull(ctx context.Context, company string, dateRange *model.DateRange) error
	// StartIncremental syncs only changes since the last run.
	StartIncremental(ctx context.Context, company string, dateRange *model.DateRange) error
	// Status reports the backend's single current job.
	Status(ctx context.Context) (*model.SyncStatus, error)
	// Cancel asks the backend to stop the current job. Cooperative: the job
	// keeps reporting status until it settles.
	Cancel(ctx context.Context) error
}

// ProgressSink receives per-tick progress updates while a sync job runs.
type ProgressSink interface {
	Progress(update model.ProgressUpdate)
	Completed(company string)
	Failed(company, errorMessage string)
	Cancelled(company string)
}

// Cancel stops a scheduled callback.
type Cancel func()

// Scheduler abstracts repeating timers so polling loops can run against a
// fake clock in tests.
type Scheduler interface {
	Schedule(interval time.Duration, fn func()) Cancel
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// VoucherFilter defines filtering options for voucher report queries.
type VoucherFilter struct {
	Company     string
	VoucherType string
	From        *time.Time
	To          *time.Time
}
