// Package syncjob manages the lifecycle of long-running backend sync
// jobs: starting them, polling the single status slot, forwarding
// progress, and settling on a terminal state. The backend runs at most
// one job at a time, so the controller keeps exactly one polling loop.
package syncjob

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/service"
)

// Config holds configuration options for the controller.
type Config struct {
	// OnSettled runs after a job settles (completed, cancelled, or the
	// backend going quietly idle) so callers can refresh company lists.
	OnSettled    func()
	PollInterval time.Duration
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: time.Second,
	}
}

// Controller drives one backend sync job at a time. Starting a new job
// or batch while one is running is permitted; the previous polling loop
// is stopped first so only one loop ever exists. Callers are expected to
// disable their own triggers while a job runs.
type Controller struct {
	backend   service.SyncBackend
	sink      service.ProgressSink
	scheduler service.Scheduler
	onSettled func()

	mu       sync.Mutex
	state    model.JobState
	company  string
	stopPoll service.Cancel
	pollCtx  context.Context

	inFlight     atomic.Bool
	pollInterval time.Duration
}

// New creates a controller with default configuration.
func New(backend service.SyncBackend, sink service.ProgressSink, scheduler service.Scheduler) *Controller {
	return NewWithConfig(backend, sink, scheduler, DefaultConfig())
}

// NewWithConfig creates a controller with custom configuration.
func NewWithConfig(backend service.SyncBackend, sink service.ProgressSink, scheduler service.Scheduler, cfg Config) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	return &Controller{
		backend:      backend,
		sink:         sink,
		scheduler:    scheduler,
		onSettled:    cfg.OnSettled,
		state:        model.StateIdle,
		pollInterval: cfg.PollInterval,
	}
}

// State reports the controller's current lifecycle state.
func (c *Controller) State() model.JobState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StartFull begins a destructive full re-sync for one company.
func (c *Controller) StartFull(ctx context.Context, company string, dateRange *model.DateRange) error {
	return c.start(ctx, model.ModeFull, company, dateRange)
}

// StartIncremental begins an incremental sync for one company.
func (c *Controller) StartIncremental(ctx context.Context, company string, dateRange *model.DateRange) error {
	return c.start(ctx, model.ModeIncremental, company, dateRange)
}

func (c *Controller) start(ctx context.Context, mode model.JobMode, company string, dateRange *model.DateRange) error {
	c.setState(model.StateStarting, company)

	var err error
	switch mode {
	case model.ModeFull:
		err = c.backend.StartFull(ctx, company, dateRange)
	default:
		err = c.backend.StartIncremental(ctx, company, dateRange)
	}
	if err != nil {
		// The start request itself failed: straight to failed and back
		// to idle, never polling.
		c.setState(model.StateFailed, company)
		c.setState(model.StateIdle, "")
		return fmt.Errorf("failed to start %s sync for %s: %w", mode, company, err)
	}

	slog.Info("Sync started", "mode", mode, "company", company)
	c.setState(model.StateRunning, company)
	c.beginPolling(ctx)
	return nil
}

// StartBatch starts one job per company in strict sequence, awaiting each
// start before issuing the next. The backend's status endpoint exposes a
// single current job, so parallel starts would corrupt progress
// attribution. One shared polling loop is started after the loop.
func (c *Controller) StartBatch(ctx context.Context, mode model.JobMode, items []model.BatchItem) error {
	if len(items) == 0 {
		return fmt.Errorf("batch sync requires at least one company")
	}

	c.setState(model.StateStarting, items[0].Company)
	for _, item := range items {
		var err error
		switch mode {
		case model.ModeFull:
			err = c.backend.StartFull(ctx, item.Company, item.DateRange)
		default:
			err = c.backend.StartIncremental(ctx, item.Company, item.DateRange)
		}
		if err != nil {
			c.setState(model.StateFailed, item.Company)
			c.setState(model.StateIdle, "")
			return fmt.Errorf("batch sync stopped at %s: %w", item.Company, err)
		}
		slog.Info("Batch sync started", "mode", mode, "company", item.Company)
	}

	c.setState(model.StateRunning, items[len(items)-1].Company)
	c.beginPolling(ctx)
	return nil
}

// Watch attaches to a job already running on the backend without
// starting one, polling it to a terminal state. The company is learned
// from the first status response.
func (c *Controller) Watch(ctx context.Context) {
	c.setState(model.StateRunning, "")
	c.beginPolling(ctx)
}

// Cancel asks the backend to stop the current job. Cancellation is
// cooperative: a poll tick that lands before the cancel response is still
// honored, last write wins.
func (c *Controller) Cancel(ctx context.Context) error {
	if err := c.backend.Cancel(ctx); err != nil {
		return fmt.Errorf("failed to cancel sync: %w", err)
	}

	c.mu.Lock()
	company := c.company
	c.mu.Unlock()

	c.stopPolling()
	c.setState(model.StateCancelled, company)
	c.setState(model.StateIdle, "")
	if c.sink != nil {
		c.sink.Cancelled(company)
	}
	slog.Info("Sync cancelled", "company", company)
	return nil
}

// Stop tears down the polling loop without touching the backend.
func (c *Controller) Stop() {
	c.stopPolling()
	c.setState(model.StateIdle, "")
}

func (c *Controller) setState(state model.JobState, company string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.company = company
}

// beginPolling replaces any existing loop: the active job is a single
// shared slot, and duplicate timers would double-poll it.
func (c *Controller) beginPolling(ctx context.Context) {
	c.stopPolling()

	c.mu.Lock()
	c.pollCtx = ctx
	c.stopPoll = c.scheduler.Schedule(c.pollInterval, c.pollTick)
	c.mu.Unlock()
}

func (c *Controller) stopPolling() {
	c.mu.Lock()
	stop := c.stopPoll
	c.stopPoll = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// pollTick runs once per interval. A tick that fires while a status
// request is still outstanding is skipped, not queued.
func (c *Controller) pollTick() {
	if !c.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer c.inFlight.Store(false)

	c.mu.Lock()
	ctx := c.pollCtx
	company := c.company
	c.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	status, err := c.backend.Status(ctx)
	if err != nil {
		// Transient poll failures are logged and retried next tick; the
		// loop never terminates itself over a single bad request.
		slog.Warn("Status poll failed", "error", err)
		return
	}

	if status.CurrentCompany != "" {
		company = status.CurrentCompany
	}
	if c.sink != nil {
		c.sink.Progress(model.ProgressUpdate{
			Company:       company,
			Table:         status.CurrentTable,
			Percent:       status.Progress,
			RowsProcessed: status.RowsProcessed,
		})
	}

	switch status.Status {
	case "completed":
		c.stopPolling()
		c.setState(model.StateCompleted, company)
		if c.sink != nil {
			c.sink.Completed(company)
		}
		c.settle()
		slog.Info("Sync completed", "company", company, "rows", status.RowsProcessed)
	case "failed":
		c.stopPolling()
		c.setState(model.StateFailed, company)
		if c.sink != nil {
			c.sink.Failed(company, status.ErrorMessage)
		}
		c.setState(model.StateIdle, "")
		slog.Error("Sync failed", "company", company, "error", status.ErrorMessage)
	case "cancelled":
		c.stopPolling()
		c.setState(model.StateCancelled, company)
		if c.sink != nil {
			c.sink.Cancelled(company)
		}
		c.setState(model.StateIdle, "")
	case "idle":
		// The backend settles to idle without an explicit completed when
		// nothing was pending. Benign: stop quietly.
		c.stopPolling()
		c.settle()
	}
}

func (c *Controller) settle() {
	c.setState(model.StateIdle, "")
	if c.onSettled != nil {
		c.onSettled()
	}
}
