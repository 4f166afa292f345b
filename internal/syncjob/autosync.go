package syncjob

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tallybridge/tallybridge/internal/common"
	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/service"
)

// AutoSyncConfig configures the periodic background sync. The interval
// is required: there is no default and no override, the caller's
// configuration is the only source of truth.
type AutoSyncConfig struct {
	// Companies supplies the batch to sync on each round, re-evaluated
	// every time so newly synced companies are picked up.
	Companies func(ctx context.Context) ([]model.BatchItem, error)
	Interval  time.Duration
	Mode      model.JobMode
}

// AutoSync runs an incremental batch sync on a fixed schedule.
type AutoSync struct {
	controller *Controller
	scheduler  service.Scheduler
	cfg        AutoSyncConfig
	stop       service.Cancel
}

// NewAutoSync validates the configuration and builds the runner.
func NewAutoSync(controller *Controller, scheduler service.Scheduler, cfg AutoSyncConfig) (*AutoSync, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("%w: auto-sync interval is required", common.ErrInvalidConfig)
	}
	if cfg.Companies == nil {
		return nil, fmt.Errorf("%w: auto-sync company source is required", common.ErrInvalidConfig)
	}
	if cfg.Mode == "" {
		cfg.Mode = model.ModeIncremental
	}
	return &AutoSync{
		controller: controller,
		scheduler:  scheduler,
		cfg:        cfg,
	}, nil
}

// Start schedules sync rounds until Stop is called. Rounds that land
// while a job is still running are skipped, not queued.
func (a *AutoSync) Start(ctx context.Context) {
	a.stop = a.scheduler.Schedule(a.cfg.Interval, func() {
		a.runOnce(ctx)
	})
	slog.Info("Auto-sync scheduled", "interval", a.cfg.Interval, "mode", a.cfg.Mode)
}

// Stop cancels the schedule. A round already in flight finishes on its
// own through the controller.
func (a *AutoSync) Stop() {
	if a.stop != nil {
		a.stop()
		a.stop = nil
	}
}

func (a *AutoSync) runOnce(ctx context.Context) {
	if a.controller.State() != model.StateIdle {
		slog.Debug("Auto-sync round skipped, job still active")
		return
	}

	items, err := a.cfg.Companies(ctx)
	if err != nil {
		slog.Warn("Auto-sync could not list companies", "error", err)
		return
	}
	if len(items) == 0 {
		return
	}

	if err := a.controller.StartBatch(ctx, a.cfg.Mode, items); err != nil {
		slog.Warn("Auto-sync round failed to start", "error", err)
	}
}
