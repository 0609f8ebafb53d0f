package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// ConfigStore keeps each merchant's distributor connection settings.
type ConfigStore struct {
	db *gorm.DB
}

func NewConfigStore(db *gorm.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

func (s *ConfigStore) Get(ctx context.Context, merchantID string) (*models.DistributorConfig, error) {
	var cfg models.DistributorConfig
	err := s.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch distributor config: %w", err)
	}
	return &cfg, nil
}

// Upsert writes the merchant's config by its merchant key.
func (s *ConfigStore) Upsert(ctx context.Context, cfg *models.DistributorConfig) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "merchant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"api_key", "api_secret", "environment", "selected_brands",
				"is_active", "updated_at",
			}),
		}).
		Create(cfg).Error
	if err != nil {
		return fmt.Errorf("failed to upsert distributor config: %w", err)
	}
	return nil
}

// RecordValidation stores the outcome of the latest credential check.
func (s *ConfigStore) RecordValidation(ctx context.Context, merchantID string, ok bool, message *string, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.DistributorConfig{}).
		Where("merchant_id = ?", merchantID).
		Updates(map[string]interface{}{
			"validation_ok":  ok,
			"validation_err": message,
			"last_validated": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to record validation outcome: %w", err)
	}
	return nil
}
