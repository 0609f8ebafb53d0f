package scheduler

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/sync"
)

// Store is the schedule persistence surface the runner needs.
type Store interface {
	Due(ctx context.Context, now time.Time) ([]models.SyncSchedule, error)
	MarkRun(ctx context.Context, id string, lastRun time.Time, nextRun *time.Time) error
}

// Trigger executes one sync run under job bookkeeping.
type Trigger interface {
	Run(ctx context.Context, merchantID string, syncType models.SyncType, settings models.SyncSettings, scheduleID *string) (*sync.SyncResult, error)
}

// Runner polls for due schedules and executes them. Schedules for the same
// merchant run sequentially on one goroutine; distinct merchants run
// concurrently since they share no state.
type Runner struct {
	store    Store
	engine   Trigger
	clock    Clock
	interval time.Duration
	logger   *logger.Logger
}

func NewRunner(store Store, engine Trigger, clock Clock, interval time.Duration, logger *logger.Logger) *Runner {
	return &Runner{
		store:    store,
		engine:   engine,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Start polls until the context is cancelled.
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("Scheduler runner started, polling every %s", r.interval)

	tick := r.clock.Tick(r.interval)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Scheduler runner stopped")
			return
		case <-tick:
			if err := r.RunPending(ctx); err != nil {
				r.logger.Error("Scheduler pass failed: %v", err)
			}
		}
	}
}

// RunPending executes every due schedule once. Run bookkeeping advances even
// when the triggered sync fails, so a failing schedule cannot retrigger in a
// tight loop; the failure stays visible through its SyncJob record.
func (r *Runner) RunPending(ctx context.Context) error {
	due, err := r.store.Due(ctx, r.clock.Now())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	byMerchant := make(map[string][]models.SyncSchedule)
	for _, s := range due {
		byMerchant[s.MerchantID] = append(byMerchant[s.MerchantID], s)
	}

	var wg stdsync.WaitGroup
	for _, schedules := range byMerchant {
		wg.Add(1)
		go func(schedules []models.SyncSchedule) {
			defer wg.Done()
			for _, s := range schedules {
				r.runSchedule(ctx, s)
			}
		}(schedules)
	}
	wg.Wait()
	return nil
}

func (r *Runner) runSchedule(ctx context.Context, s models.SyncSchedule) {
	r.logger.Info("Running schedule %s (%s %s) for merchant %s", s.Name, s.Frequency, s.SyncType, s.MerchantID)

	if _, err := r.engine.Run(ctx, s.MerchantID, s.SyncType, s.Settings, &s.ID); err != nil {
		r.logger.Error("Schedule %s run failed: %v", s.Name, err)
	}

	now := r.clock.Now()
	next := ComputeNextRun(s.Frequency, now)
	if err := r.store.MarkRun(ctx, s.ID, now, next); err != nil {
		r.logger.Error("Failed to advance schedule %s: %v", s.Name, err)
	}
}
