// Package events publishes sync job lifecycle events to Kafka so downstream
// consumers (notification and analytics workers) can react without polling
// the job ledger.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
)

const (
	EventSyncCompleted = "sync.completed"
	EventSyncFailed    = "sync.failed"
)

type SyncEvent struct {
	Type         string          `json:"type"`
	JobID        string          `json:"job_id"`
	MerchantID   string          `json:"merchant_id"`
	SyncType     models.SyncType `json:"sync_type"`
	TotalItems   int             `json:"total_items"`
	SuccessItems int             `json:"success_items"`
	FailedItems  int             `json:"failed_items"`
	Error        string          `json:"error,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Publisher writes sync events to the sync-events topic. With no brokers
// configured it degrades to a no-op so development setups need no Kafka.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers, topic string, logger *logger.Logger) *Publisher {
	p := &Publisher{logger: logger}
	if brokers == "" {
		logger.Info("Kafka brokers not configured, sync events disabled")
		return p
	}
	p.writer = &kafka.Writer{
		Addr:     kafka.TCP(brokers),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return p
}

func (p *Publisher) PublishCompleted(ctx context.Context, job *models.SyncJob) error {
	return p.publish(ctx, SyncEvent{
		Type:         EventSyncCompleted,
		JobID:        job.ID,
		MerchantID:   job.MerchantID,
		SyncType:     job.SyncType,
		TotalItems:   job.TotalItems,
		SuccessItems: job.SuccessItems,
		FailedItems:  job.FailedItems,
		Timestamp:    time.Now(),
	})
}

func (p *Publisher) PublishFailed(ctx context.Context, job *models.SyncJob, cause string) error {
	return p.publish(ctx, SyncEvent{
		Type:       EventSyncFailed,
		JobID:      job.ID,
		MerchantID: job.MerchantID,
		SyncType:   job.SyncType,
		Error:      cause,
		Timestamp:  time.Now(),
	})
}

func (p *Publisher) publish(ctx context.Context, event SyncEvent) error {
	if p.writer == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.MerchantID),
		Value: value,
	})
	if err != nil {
		return err
	}

	p.logger.Debug("Published %s event for job %s", event.Type, event.JobID)
	return nil
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
