package fitment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xndroli/lucrative-growth-app/internal/database"
	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/store"
)

const testMerchant = "shop.myshopify.com"

type fixture struct {
	matcher  *Matcher
	vehicles *store.VehicleStore
	catalog  *store.CatalogStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	vehicles := store.NewVehicleStore(db)
	catalog := store.NewCatalogStore(db)
	return &fixture{
		matcher:  NewMatcher(vehicles, catalog, logger.New("error")),
		vehicles: vehicles,
		catalog:  catalog,
	}
}

func (f *fixture) seedVehicle(t *testing.T, year int, make, model, submodel string) *models.VehicleRecord {
	t.Helper()
	v := &models.VehicleRecord{Year: year, Make: make, Model: model, Submodel: submodel, IsActive: true}
	_, err := f.vehicles.UpsertVehicle(context.Background(), v)
	require.NoError(t, err)
	return v
}

func (f *fixture) seedProduct(t *testing.T, sku string) *models.TrackedProduct {
	t.Helper()
	p := &models.TrackedProduct{
		MerchantID: testMerchant,
		SKU:        sku,
		Brand:      "Bilstein",
		SyncStatus: models.SyncStatusActive,
	}
	require.NoError(t, f.catalog.Create(context.Background(), p))
	return p
}

func TestCheckCompatibilityExactMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	vehicle := f.seedVehicle(t, 2020, "Toyota", "Tacoma", "TRD")
	product := f.seedProduct(t, "A100")
	require.NoError(t, f.vehicles.ReplaceEdges(ctx, testMerchant, product.ID, []models.CompatibilityEdge{
		{MerchantID: testMerchant, ProductID: product.ID, Year: 2020, Make: "Toyota", Model: "Tacoma", Submodel: "TRD"},
	}))

	check, err := f.matcher.CheckCompatibility(ctx, testMerchant, vehicle.ID, "A100")
	require.NoError(t, err)

	assert.True(t, check.Compatible)
	assert.False(t, check.Universal)
}

func TestCheckCompatibilityUniversalFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	vehicle := f.seedVehicle(t, 2020, "Toyota", "Tacoma", "")
	product := f.seedProduct(t, "A100")
	require.NoError(t, f.vehicles.ReplaceEdges(ctx, testMerchant, product.ID, []models.CompatibilityEdge{
		{MerchantID: testMerchant, ProductID: product.ID, IsUniversal: true},
	}))

	check, err := f.matcher.CheckCompatibility(ctx, testMerchant, vehicle.ID, "A100")
	require.NoError(t, err)

	assert.True(t, check.Compatible)
	assert.True(t, check.Universal)
}

func TestCheckCompatibilityExactWinsOverUniversal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	vehicle := f.seedVehicle(t, 2020, "Toyota", "Tacoma", "")
	product := f.seedProduct(t, "A100")
	require.NoError(t, f.vehicles.ReplaceEdges(ctx, testMerchant, product.ID, []models.CompatibilityEdge{
		{MerchantID: testMerchant, ProductID: product.ID, Year: 2020, Make: "Toyota", Model: "Tacoma"},
		{MerchantID: testMerchant, ProductID: product.ID, IsUniversal: true},
	}))

	check, err := f.matcher.CheckCompatibility(ctx, testMerchant, vehicle.ID, "A100")
	require.NoError(t, err)

	assert.True(t, check.Compatible)
	assert.False(t, check.Universal)
}

func TestCheckCompatibilityNoFitment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	vehicle := f.seedVehicle(t, 1999, "Ford", "Ranger", "")
	product := f.seedProduct(t, "A100")
	require.NoError(t, f.vehicles.ReplaceEdges(ctx, testMerchant, product.ID, []models.CompatibilityEdge{
		{MerchantID: testMerchant, ProductID: product.ID, Year: 2020, Make: "Toyota", Model: "Tacoma"},
	}))

	check, err := f.matcher.CheckCompatibility(ctx, testMerchant, vehicle.ID, "A100")
	require.NoError(t, err)

	assert.False(t, check.Compatible)
	assert.Contains(t, check.Reason, "1999 Ford Ranger")
}

func TestCheckCompatibilityUnknownVehicle(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A100")

	check, err := f.matcher.CheckCompatibility(context.Background(), testMerchant, "no-such-vehicle", "A100")
	require.NoError(t, err)

	assert.False(t, check.Compatible)
	assert.Equal(t, "unknown vehicle", check.Reason)
}

func TestCheckCompatibilityUntrackedProduct(t *testing.T) {
	f := newFixture(t)
	vehicle := f.seedVehicle(t, 2020, "Toyota", "Tacoma", "")

	check, err := f.matcher.CheckCompatibility(context.Background(), testMerchant, vehicle.ID, "NOPE")
	require.NoError(t, err)

	assert.False(t, check.Compatible)
	assert.Equal(t, "product is not tracked", check.Reason)
}

func TestFindCompatibleProductsRequiresVehicleDescriptor(t *testing.T) {
	f := newFixture(t)

	_, err := f.matcher.FindCompatibleProducts(context.Background(), testMerchant, store.FitmentQuery{Make: "Toyota"})
	assert.Error(t, err)
}

func TestFindCompatibleProductsMatchesEdges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fits := f.seedProduct(t, "A100")
	other := f.seedProduct(t, "B200")
	require.NoError(t, f.vehicles.ReplaceEdges(ctx, testMerchant, fits.ID, []models.CompatibilityEdge{
		{MerchantID: testMerchant, ProductID: fits.ID, Year: 2020, Make: "Toyota", Model: "Tacoma"},
	}))
	require.NoError(t, f.vehicles.ReplaceEdges(ctx, testMerchant, other.ID, []models.CompatibilityEdge{
		{MerchantID: testMerchant, ProductID: other.ID, Year: 2018, Make: "Honda", Model: "Civic"},
	}))

	products, err := f.matcher.FindCompatibleProducts(ctx, testMerchant, store.FitmentQuery{
		Year: 2020, Make: "Toyota", Model: "Tacoma",
	})
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "A100", products[0].SKU)
}
