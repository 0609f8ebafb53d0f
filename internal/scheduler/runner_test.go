package scheduler

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/sync"
)

type fakeClock struct {
	now  time.Time
	tick chan time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Tick(time.Duration) <-chan time.Time { return c.tick }

type markedRun struct {
	id      string
	lastRun time.Time
	nextRun *time.Time
}

type fakeScheduleStore struct {
	mu  stdsync.Mutex
	due []models.SyncSchedule

	dueErr error
	marked []markedRun
}

func (s *fakeScheduleStore) Due(ctx context.Context, now time.Time) ([]models.SyncSchedule, error) {
	return s.due, s.dueErr
}

func (s *fakeScheduleStore) MarkRun(ctx context.Context, id string, lastRun time.Time, nextRun *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, markedRun{id: id, lastRun: lastRun, nextRun: nextRun})
	return nil
}

type triggeredRun struct {
	merchantID string
	syncType   models.SyncType
	scheduleID string
}

type fakeTrigger struct {
	mu     stdsync.Mutex
	err    error
	runs   []triggeredRun
	notify chan struct{}
}

func (f *fakeTrigger) Run(ctx context.Context, merchantID string, syncType models.SyncType, settings models.SyncSettings, scheduleID *string) (*sync.SyncResult, error) {
	f.mu.Lock()
	run := triggeredRun{merchantID: merchantID, syncType: syncType}
	if scheduleID != nil {
		run.scheduleID = *scheduleID
	}
	f.runs = append(f.runs, run)
	f.mu.Unlock()

	if f.notify != nil {
		f.notify <- struct{}{}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &sync.SyncResult{}, nil
}

func schedule(id, merchantID string, syncType models.SyncType, freq models.SyncFrequency) models.SyncSchedule {
	return models.SyncSchedule{
		ID:         id,
		MerchantID: merchantID,
		Name:       id,
		SyncType:   syncType,
		Frequency:  freq,
		IsActive:   true,
	}
}

func TestRunPendingExecutesDueSchedules(t *testing.T) {
	now := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	store := &fakeScheduleStore{due: []models.SyncSchedule{
		schedule("s1", "shop.myshopify.com", models.SyncTypeInventory, models.FrequencyHourly),
		schedule("s2", "shop.myshopify.com", models.SyncTypePricing, models.FrequencyDaily),
	}}
	trigger := &fakeTrigger{}
	runner := NewRunner(store, trigger, &fakeClock{now: now}, time.Minute, logger.New("error"))

	require.NoError(t, runner.RunPending(context.Background()))

	require.Len(t, trigger.runs, 2)
	assert.Equal(t, "s1", trigger.runs[0].scheduleID)
	assert.Equal(t, models.SyncTypeInventory, trigger.runs[0].syncType)

	require.Len(t, store.marked, 2)
	for _, m := range store.marked {
		assert.Equal(t, now, m.lastRun)
		require.NotNil(t, m.nextRun)
		assert.True(t, m.nextRun.After(now))
	}
}

func TestRunPendingAdvancesScheduleOnFailure(t *testing.T) {
	now := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	store := &fakeScheduleStore{due: []models.SyncSchedule{
		schedule("s1", "shop.myshopify.com", models.SyncTypeFull, models.FrequencyHourly),
	}}
	trigger := &fakeTrigger{err: errors.New("distributor is down")}
	runner := NewRunner(store, trigger, &fakeClock{now: now}, time.Minute, logger.New("error"))

	require.NoError(t, runner.RunPending(context.Background()))

	// A failed run must still advance next_run_at so the schedule cannot
	// retrigger in a tight loop.
	require.Len(t, store.marked, 1)
	require.NotNil(t, store.marked[0].nextRun)
	assert.Equal(t, now.Add(time.Hour), *store.marked[0].nextRun)
}

func TestRunPendingManualScheduleGetsNoNextRun(t *testing.T) {
	now := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	store := &fakeScheduleStore{due: []models.SyncSchedule{
		schedule("s1", "shop.myshopify.com", models.SyncTypeInventory, models.FrequencyManual),
	}}
	trigger := &fakeTrigger{}
	runner := NewRunner(store, trigger, &fakeClock{now: now}, time.Minute, logger.New("error"))

	require.NoError(t, runner.RunPending(context.Background()))

	require.Len(t, store.marked, 1)
	assert.Nil(t, store.marked[0].nextRun)
}

func TestRunPendingRunsDistinctMerchantsConcurrently(t *testing.T) {
	now := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	store := &fakeScheduleStore{due: []models.SyncSchedule{
		schedule("s1", "first.myshopify.com", models.SyncTypeInventory, models.FrequencyHourly),
		schedule("s2", "second.myshopify.com", models.SyncTypeInventory, models.FrequencyHourly),
		schedule("s3", "second.myshopify.com", models.SyncTypePricing, models.FrequencyHourly),
	}}
	trigger := &fakeTrigger{}
	runner := NewRunner(store, trigger, &fakeClock{now: now}, time.Minute, logger.New("error"))

	require.NoError(t, runner.RunPending(context.Background()))

	assert.Len(t, trigger.runs, 3)
	assert.Len(t, store.marked, 3)

	// A merchant's own schedules stay ordered even across goroutines.
	var secondMerchant []string
	for _, r := range trigger.runs {
		if r.merchantID == "second.myshopify.com" {
			secondMerchant = append(secondMerchant, r.scheduleID)
		}
	}
	assert.Equal(t, []string{"s2", "s3"}, secondMerchant)
}

func TestStartRunsDueSchedulesOnEachTick(t *testing.T) {
	now := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	store := &fakeScheduleStore{due: []models.SyncSchedule{
		schedule("s1", "shop.myshopify.com", models.SyncTypeInventory, models.FrequencyHourly),
	}}
	trigger := &fakeTrigger{notify: make(chan struct{}, 1)}
	clock := &fakeClock{now: now, tick: make(chan time.Time)}
	runner := NewRunner(store, trigger, clock, time.Minute, logger.New("error"))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		runner.Start(ctx)
		close(stopped)
	}()

	clock.tick <- now
	select {
	case <-trigger.notify:
	case <-time.After(time.Second):
		t.Fatal("tick did not trigger a scheduler pass")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop on context cancellation")
	}
}

func TestRunPendingWithNothingDue(t *testing.T) {
	runner := NewRunner(&fakeScheduleStore{}, &fakeTrigger{}, &fakeClock{now: time.Now()}, time.Minute, logger.New("error"))

	require.NoError(t, runner.RunPending(context.Background()))
}

func TestRunPendingPropagatesStoreError(t *testing.T) {
	store := &fakeScheduleStore{dueErr: errors.New("database gone")}
	runner := NewRunner(store, &fakeTrigger{}, &fakeClock{now: time.Now()}, time.Minute, logger.New("error"))

	assert.Error(t, runner.RunPending(context.Background()))
}
