package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// CatalogStore tracks the mapping between distributor SKUs and the Shopify
// listings they were published as. Writes are scoped to a single
// (merchant, SKU) and use upsert-style updates so overlapping passes for the
// same merchant cannot corrupt a row.
type CatalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	IDs      []string
	Brand    string
	Category string
	Limit    int
}

func (s *CatalogStore) Create(ctx context.Context, p *models.TrackedProduct) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create tracked product: %w", err)
	}
	return nil
}

func (s *CatalogStore) GetByID(ctx context.Context, id string) (*models.TrackedProduct, error) {
	var p models.TrackedProduct
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch tracked product: %w", err)
	}
	return &p, nil
}

func (s *CatalogStore) GetBySKU(ctx context.Context, merchantID, sku string) (*models.TrackedProduct, error) {
	var p models.TrackedProduct
	err := s.db.WithContext(ctx).
		Where("merchant_id = ? AND sku = ?", merchantID, sku).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch tracked product: %w", err)
	}
	return &p, nil
}

// ListSyncable returns the merchant's products eligible for sync passes,
// optionally narrowed by the filter, ordered by SKU for stable batch runs.
// Errored rows stay in the listing so the next pass retries them; only
// paused products are excluded.
func (s *CatalogStore) ListSyncable(ctx context.Context, merchantID string, filter *ProductFilter) ([]models.TrackedProduct, error) {
	query := s.db.WithContext(ctx).
		Where("merchant_id = ? AND sync_status <> ?", merchantID, models.SyncStatusPaused)

	if filter != nil {
		if len(filter.IDs) > 0 {
			query = query.Where("id IN ?", filter.IDs)
		}
		if filter.Brand != "" {
			query = query.Where("brand = ?", filter.Brand)
		}
		if filter.Category != "" {
			query = query.Where("category = ?", filter.Category)
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
	}

	var products []models.TrackedProduct
	if err := query.Order("sku ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list syncable products: %w", err)
	}
	return products, nil
}

// ExistingSKUSet loads every tracked SKU for the merchant into a set, built
// once up front so new-product import can dedup without per-item queries.
func (s *CatalogStore) ExistingSKUSet(ctx context.Context, merchantID string) (map[string]struct{}, error) {
	var skus []string
	err := s.db.WithContext(ctx).
		Model(&models.TrackedProduct{}).
		Where("merchant_id = ?", merchantID).
		Pluck("sku", &skus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load SKU set: %w", err)
	}

	set := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		set[sku] = struct{}{}
	}
	return set, nil
}

// UpdateQuantity records a fresh stock level and marks the row synced.
func (s *CatalogStore) UpdateQuantity(ctx context.Context, id string, qty int, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.TrackedProduct{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"inventory_qty":  qty,
			"sync_status":    models.SyncStatusActive,
			"last_synced_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	return nil
}

// UpdatePrice records fresh distributor and marked-up prices and marks the
// row synced.
func (s *CatalogStore) UpdatePrice(ctx context.Context, id string, original, current float64, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.TrackedProduct{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"original_price": original,
			"current_price":  current,
			"sync_status":    models.SyncStatusActive,
			"last_synced_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}
	return nil
}

// MarkSynced transitions the row back to active after a successful pass that
// changed nothing else.
func (s *CatalogStore) MarkSynced(ctx context.Context, id string, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.TrackedProduct{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sync_status":    models.SyncStatusActive,
			"last_synced_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark product synced: %w", err)
	}
	return nil
}

// RecordSyncError prepends the failure to the row's bounded error history
// and flips the status to error until the next successful pass.
func (s *CatalogStore) RecordSyncError(ctx context.Context, id string, message string, at time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.TrackedProduct
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to fetch tracked product: %w", err)
		}

		p.SyncErrors = p.SyncErrors.Prepend(models.SyncError{Message: message, OccurredAt: at})
		p.SyncStatus = models.SyncStatusError
		err := tx.Model(&p).
			Select("sync_status", "sync_errors").
			Updates(&p).Error
		if err != nil {
			return fmt.Errorf("failed to record sync error: %w", err)
		}
		return nil
	})
}
