package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

func seedProduct(t *testing.T, s *CatalogStore, merchantID, sku string) *models.TrackedProduct {
	t.Helper()
	p := &models.TrackedProduct{
		MerchantID:       merchantID,
		SKU:              sku,
		Title:            "Part " + sku,
		Brand:            "Bilstein",
		ShopifyVariantID: "v-" + sku,
		OriginalPrice:    10,
		CurrentPrice:     12,
		MarkupPercent:    20,
		InventoryQty:     5,
		SyncStatus:       models.SyncStatusActive,
	}
	require.NoError(t, s.Create(context.Background(), p))
	return p
}

func TestCatalogGetBySKUIsMerchantScoped(t *testing.T) {
	s := NewCatalogStore(testDB(t))
	ctx := context.Background()
	seedProduct(t, s, "first.myshopify.com", "A100")

	found, err := s.GetBySKU(ctx, "first.myshopify.com", "A100")
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := s.GetBySKU(ctx, "second.myshopify.com", "A100")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCatalogListSyncableExcludesOnlyPaused(t *testing.T) {
	s := NewCatalogStore(testDB(t))
	ctx := context.Background()

	seedProduct(t, s, "shop.myshopify.com", "A100")
	paused := seedProduct(t, s, "shop.myshopify.com", "A101")
	require.NoError(t, s.db.Model(paused).Update("sync_status", models.SyncStatusPaused).Error)
	errored := seedProduct(t, s, "shop.myshopify.com", "A102")
	require.NoError(t, s.RecordSyncError(ctx, errored.ID, "distributor timeout", time.Now()))

	products, err := s.ListSyncable(ctx, "shop.myshopify.com", nil)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "A100", products[0].SKU)
	// An errored product stays listed so the next pass retries it and can
	// move it back to active.
	assert.Equal(t, "A102", products[1].SKU)
}

func TestCatalogListSyncableOrdersBySKU(t *testing.T) {
	s := NewCatalogStore(testDB(t))
	ctx := context.Background()

	seedProduct(t, s, "shop.myshopify.com", "B200")
	seedProduct(t, s, "shop.myshopify.com", "A100")
	seedProduct(t, s, "shop.myshopify.com", "C300")

	products, err := s.ListSyncable(ctx, "shop.myshopify.com", nil)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "A100", products[0].SKU)
	assert.Equal(t, "C300", products[2].SKU)
}

func TestCatalogExistingSKUSet(t *testing.T) {
	s := NewCatalogStore(testDB(t))
	ctx := context.Background()

	seedProduct(t, s, "shop.myshopify.com", "A100")
	seedProduct(t, s, "shop.myshopify.com", "A101")
	seedProduct(t, s, "other.myshopify.com", "Z900")

	set, err := s.ExistingSKUSet(ctx, "shop.myshopify.com")
	require.NoError(t, err)

	assert.Len(t, set, 2)
	assert.Contains(t, set, "A100")
	assert.NotContains(t, set, "Z900")
}

func TestCatalogUpdateQuantityMarksSynced(t *testing.T) {
	s := NewCatalogStore(testDB(t))
	ctx := context.Background()
	p := seedProduct(t, s, "shop.myshopify.com", "A100")

	at := time.Now()
	require.NoError(t, s.UpdateQuantity(ctx, p.ID, 0, at))

	reloaded, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.InventoryQty)
	assert.Equal(t, models.SyncStatusActive, reloaded.SyncStatus)
	require.NotNil(t, reloaded.LastSyncedAt)
}

func TestCatalogRecordSyncErrorBoundsHistory(t *testing.T) {
	s := NewCatalogStore(testDB(t))
	ctx := context.Background()
	p := seedProduct(t, s, "shop.myshopify.com", "A100")

	for i := 0; i < models.MaxRecentSyncErrors+3; i++ {
		require.NoError(t, s.RecordSyncError(ctx, p.ID, fmt.Sprintf("failure %d", i), time.Now()))
	}

	reloaded, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, models.SyncStatusError, reloaded.SyncStatus)
	require.Len(t, reloaded.SyncErrors, models.MaxRecentSyncErrors)
	// Newest first.
	assert.Equal(t, fmt.Sprintf("failure %d", models.MaxRecentSyncErrors+2), reloaded.SyncErrors[0].Message)
}

func TestCatalogSuccessfulPassClearsErrorStatus(t *testing.T) {
	s := NewCatalogStore(testDB(t))
	ctx := context.Background()
	p := seedProduct(t, s, "shop.myshopify.com", "A100")

	require.NoError(t, s.RecordSyncError(ctx, p.ID, "boom", time.Now()))
	require.NoError(t, s.MarkSynced(ctx, p.ID, time.Now()))

	reloaded, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusActive, reloaded.SyncStatus)
	// History survives the recovery for later inspection.
	assert.NotEmpty(t, reloaded.SyncErrors)
}

func TestCatalogDuplicateSKURejected(t *testing.T) {
	s := NewCatalogStore(testDB(t))
	ctx := context.Background()
	seedProduct(t, s, "shop.myshopify.com", "A100")

	err := s.Create(ctx, &models.TrackedProduct{
		MerchantID: "shop.myshopify.com",
		SKU:        "A100",
	})
	assert.Error(t, err)
}
