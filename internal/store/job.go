package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// JobStore is the append-only sync job ledger.
type JobStore struct {
	db *gorm.DB
}

func NewJobStore(db *gorm.DB) *JobStore {
	return &JobStore{db: db}
}

func (s *JobStore) Create(ctx context.Context, job *models.SyncJob) error {
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create sync job: %w", err)
	}
	return nil
}

// Start transitions the job to running.
func (s *JobStore) Start(ctx context.Context, id string, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.SyncJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.JobStatusRunning,
			"started_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to start sync job: %w", err)
	}
	return nil
}

// UpdateProgress flushes the per-item counters mid-run so a crash leaves an
// accurate partial ledger.
func (s *JobStore) UpdateProgress(ctx context.Context, id string, total, processed, success, failed int) error {
	err := s.db.WithContext(ctx).
		Model(&models.SyncJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_items":     total,
			"processed_items": processed,
			"success_items":   success,
			"failed_items":    failed,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}
	return nil
}

// Complete closes the job as completed with final counts and the serialized
// per-phase results.
func (s *JobStore) Complete(ctx context.Context, id string, at time.Time, total, processed, success, failed int, results string) error {
	err := s.db.WithContext(ctx).
		Model(&models.SyncJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          models.JobStatusCompleted,
			"completed_at":    at,
			"total_items":     total,
			"processed_items": processed,
			"success_items":   success,
			"failed_items":    failed,
			"results":         results,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to complete sync job: %w", err)
	}
	return nil
}

// Fail closes the job as failed, recording the escaping error's message.
func (s *JobStore) Fail(ctx context.Context, id string, at time.Time, message string) error {
	err := s.db.WithContext(ctx).
		Model(&models.SyncJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.JobStatusFailed,
			"completed_at":  at,
			"error_message": message,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to fail sync job: %w", err)
	}
	return nil
}

func (s *JobStore) Get(ctx context.Context, id string) (*models.SyncJob, error) {
	var job models.SyncJob
	if err := s.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch sync job: %w", err)
	}
	return &job, nil
}

// Recent lists the merchant's latest jobs, newest first.
func (s *JobStore) Recent(ctx context.Context, merchantID string, limit int) ([]models.SyncJob, error) {
	if limit <= 0 {
		limit = 20
	}
	var jobs []models.SyncJob
	err := s.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent jobs: %w", err)
	}
	return jobs, nil
}

// Stats aggregates job outcomes for the merchant since the given time.
func (s *JobStore) Stats(ctx context.Context, merchantID string, since time.Time) (*models.JobStats, error) {
	var rows []models.SyncJob
	err := s.db.WithContext(ctx).
		Where("merchant_id = ? AND created_at >= ?", merchantID, since).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load job stats: %w", err)
	}

	stats := &models.JobStats{}
	for _, job := range rows {
		stats.TotalJobs++
		switch job.Status {
		case models.JobStatusCompleted:
			stats.CompletedJobs++
		case models.JobStatusFailed:
			stats.FailedJobs++
		}
		stats.ItemsSynced += int64(job.SuccessItems)
		stats.ItemsFailed += int64(job.FailedItems)
	}
	if stats.TotalJobs > 0 {
		stats.SuccessRate = float64(stats.CompletedJobs) / float64(stats.TotalJobs)
	}
	return stats, nil
}
