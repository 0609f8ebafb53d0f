package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job-only sync types: these never appear on a SyncSchedule (ParseSyncType
// rejects them) but label the ledger rows for vehicle-database and bulk
// compatibility runs.
const (
	SyncTypeVehicles      SyncType = "vehicles"
	SyncTypeCompatibility SyncType = "compatibility"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// SyncJob is the append-only execution record for one reconciliation run,
// scheduled or manual. Counters are flushed as the run progresses so a crash
// mid-batch still leaves an accurate partial ledger.
type SyncJob struct {
	ID             string     `json:"id" gorm:"type:uuid;primary_key"`
	MerchantID     string     `json:"merchant_id" gorm:"index;not null"`
	ScheduleID     *string    `json:"schedule_id" gorm:"index"`
	SyncType       SyncType   `json:"sync_type" gorm:"not null"`
	Status         JobStatus  `json:"status" gorm:"default:pending;index"`
	StartedAt      *time.Time `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
	TotalItems     int        `json:"total_items"`
	ProcessedItems int        `json:"processed_items"`
	SuccessItems   int        `json:"success_items"`
	FailedItems    int        `json:"failed_items"`
	ErrorMessage   *string    `json:"error_message"`
	Results        string     `json:"results" gorm:"type:text"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (j *SyncJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	return nil
}

// JobStats aggregates a merchant's job outcomes over a trailing window.
type JobStats struct {
	TotalJobs     int64   `json:"total_jobs"`
	CompletedJobs int64   `json:"completed_jobs"`
	FailedJobs    int64   `json:"failed_jobs"`
	SuccessRate   float64 `json:"success_rate"`
	ItemsSynced   int64   `json:"items_synced"`
	ItemsFailed   int64   `json:"items_failed"`
}
