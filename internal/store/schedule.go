package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// ScheduleStore keeps the named recurring sync definitions.
type ScheduleStore struct {
	db *gorm.DB
}

func NewScheduleStore(db *gorm.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

func (s *ScheduleStore) Create(ctx context.Context, schedule *models.SyncSchedule) error {
	if err := schedule.Settings.Validate(); err != nil {
		return fmt.Errorf("invalid schedule settings: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (s *ScheduleStore) Update(ctx context.Context, schedule *models.SyncSchedule) error {
	if err := schedule.Settings.Validate(); err != nil {
		return fmt.Errorf("invalid schedule settings: %w", err)
	}
	if err := s.db.WithContext(ctx).Save(schedule).Error; err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return nil
}

func (s *ScheduleStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.SyncSchedule{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

func (s *ScheduleStore) Get(ctx context.Context, id string) (*models.SyncSchedule, error) {
	var schedule models.SyncSchedule
	if err := s.db.WithContext(ctx).First(&schedule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	return &schedule, nil
}

func (s *ScheduleStore) ListByMerchant(ctx context.Context, merchantID string) ([]models.SyncSchedule, error) {
	var schedules []models.SyncSchedule
	err := s.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// Due returns every active schedule whose next run is at or before now,
// oldest first.
func (s *ScheduleStore) Due(ctx context.Context, now time.Time) ([]models.SyncSchedule, error) {
	var schedules []models.SyncSchedule
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND next_run_at IS NOT NULL AND next_run_at <= ?", true, now).
		Order("next_run_at ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query due schedules: %w", err)
	}
	return schedules, nil
}

// MarkRun advances the schedule's run bookkeeping. Called after every
// execution, failed or not, so a failing schedule cannot retrigger in a
// tight loop.
func (s *ScheduleStore) MarkRun(ctx context.Context, id string, lastRun time.Time, nextRun *time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.SyncSchedule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_run_at": lastRun,
			"next_run_at": nextRun,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark schedule run: %w", err)
	}
	return nil
}
