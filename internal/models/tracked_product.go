package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxRecentSyncErrors bounds the per-product error history kept on the row.
const MaxRecentSyncErrors = 10

// TrackedProduct links one Turn14 SKU to the Shopify product/variant it was
// published as, along with the pricing and inventory state last written there.
type TrackedProduct struct {
	ID               string        `json:"id" gorm:"type:uuid;primary_key"`
	MerchantID       string        `json:"merchant_id" gorm:"uniqueIndex:idx_merchant_sku;not null"`
	SKU              string        `json:"sku" gorm:"uniqueIndex:idx_merchant_sku;not null"`
	Title            string        `json:"title"`
	Brand            string        `json:"brand" gorm:"index"`
	Category         *string       `json:"category"`
	ShopifyProductID string        `json:"shopify_product_id"`
	ShopifyVariantID string        `json:"shopify_variant_id"`
	OriginalPrice    float64       `json:"original_price" gorm:"type:decimal(10,2)"`
	CurrentPrice     float64       `json:"current_price" gorm:"type:decimal(10,2)"`
	MarkupPercent    float64       `json:"markup_percent"`
	InventoryQty     int           `json:"inventory_quantity"`
	SyncStatus       SyncStatus    `json:"sync_status" gorm:"default:active;index"`
	LastSyncedAt     *time.Time    `json:"last_synced_at"`
	SyncErrors       SyncErrorList `json:"sync_errors" gorm:"serializer:json"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type SyncStatus string

const (
	SyncStatusActive SyncStatus = "active"
	SyncStatusPaused SyncStatus = "paused"
	SyncStatusError  SyncStatus = "error"
)

// SyncError is one recorded per-item failure from a reconciliation pass.
type SyncError struct {
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

type SyncErrorList []SyncError

// Prepend adds a new error at the head and trims the list to
// MaxRecentSyncErrors, newest first.
func (l SyncErrorList) Prepend(e SyncError) SyncErrorList {
	out := append(SyncErrorList{e}, l...)
	if len(out) > MaxRecentSyncErrors {
		out = out[:MaxRecentSyncErrors]
	}
	return out
}

func (p *TrackedProduct) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
