package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xndroli/lucrative-growth-app/internal/api/middleware"
	"github.com/xndroli/lucrative-growth-app/internal/database"
	"github.com/xndroli/lucrative-growth-app/internal/events"
	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/shopify"
	"github.com/xndroli/lucrative-growth-app/internal/store"
	"github.com/xndroli/lucrative-growth-app/internal/sync"
	"github.com/xndroli/lucrative-growth-app/internal/turn14"
)

const testMerchant = "shop.myshopify.com"

type stubDistributor struct{}

func (stubDistributor) Authenticate(ctx context.Context, key, secret string, env models.Turn14Env) error {
	return nil
}

func (stubDistributor) ListInventory(ctx context.Context, filter turn14.InventoryFilter, page int) (*turn14.ItemPage, error) {
	return &turn14.ItemPage{}, nil
}

func (stubDistributor) GetPricing(ctx context.Context, skus []string) (map[string]float64, error) {
	return map[string]float64{}, nil
}

func (stubDistributor) GetStock(ctx context.Context, skus []string) (map[string]int, error) {
	return map[string]int{}, nil
}

func (stubDistributor) ListVehicles(ctx context.Context, filter turn14.VehicleFilter, page int) (*turn14.VehiclePage, error) {
	return &turn14.VehiclePage{}, nil
}

func (stubDistributor) GetCompatibility(ctx context.Context, sku string) ([]turn14.Fitment, error) {
	return []turn14.Fitment{{Year: 2020, Make: "Toyota", Model: "Tacoma"}}, nil
}

type stubStorefront struct{}

func (stubStorefront) CreateListing(ctx context.Context, listing *shopify.Listing) (*shopify.ListingIDs, error) {
	return &shopify.ListingIDs{ProductID: "p", VariantID: "v"}, nil
}

func (stubStorefront) UpdateInventory(ctx context.Context, variantID string, quantity int) error {
	return nil
}

func (stubStorefront) UpdatePrice(ctx context.Context, variantID string, price float64) error {
	return nil
}

// newSyncRouter wires the compatibility trigger against a real engine with
// three tracked products seeded.
func newSyncRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	log := logger.New("error")
	catalog := store.NewCatalogStore(db)
	configs := store.NewConfigStore(db)
	ctx := context.Background()

	require.NoError(t, configs.Upsert(ctx, &models.DistributorConfig{
		MerchantID:  testMerchant,
		APIKey:      "key",
		APISecret:   "secret",
		Environment: models.Turn14EnvSandbox,
		IsActive:    true,
	}))
	for _, sku := range []string{"A100", "B200", "C300"} {
		require.NoError(t, catalog.Create(ctx, &models.TrackedProduct{
			MerchantID: testMerchant,
			SKU:        sku,
			SyncStatus: models.SyncStatusActive,
		}))
	}

	engine := sync.NewEngine(
		stubDistributor{},
		func(string) shopify.Publisher { return stubStorefront{} },
		catalog,
		store.NewVehicleStore(db),
		store.NewJobStore(db),
		configs,
		events.NewPublisher("", "sync-events", log),
		log,
	)

	router := gin.New()
	router.POST("/sync/compatibility", middleware.RequireMerchant(), NewSyncHandler(engine, log).SyncCompatibility)
	return router
}

func postCompatibility(t *testing.T, router *gin.Engine, path, body string) sync.BulkCompatibilityResult {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("X-Merchant-ID", testMerchant)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data sync.BulkCompatibilityResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestSyncCompatibilityUsesConfiguredLimit(t *testing.T) {
	router := newSyncRouter(t)

	result := postCompatibility(t, router, "/sync/compatibility", `{"compatibility_limit": 2}`)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Successful)
}

func TestSyncCompatibilityQueryLimitOverridesSettings(t *testing.T) {
	router := newSyncRouter(t)

	result := postCompatibility(t, router, "/sync/compatibility?limit=1", `{"compatibility_limit": 2}`)

	assert.Equal(t, 1, result.Processed)
}

func TestSyncCompatibilityDefaultsToFullBatch(t *testing.T) {
	router := newSyncRouter(t)

	result := postCompatibility(t, router, "/sync/compatibility", "")

	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 3, result.Successful)
}
