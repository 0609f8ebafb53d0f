package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

func seedGarageVehicle(t *testing.T, s *GarageStore, garageID string, primary bool) *models.GarageVehicle {
	t.Helper()
	v := &models.GarageVehicle{
		GarageID:  garageID,
		Year:      2020,
		Make:      "Toyota",
		Model:     "Tacoma",
		Mileage:   30000,
		IsPrimary: primary,
	}
	require.NoError(t, s.CreateVehicle(context.Background(), v))
	return v
}

func TestGetOrCreateGarageIsIdempotent(t *testing.T) {
	s := NewGarageStore(testDB(t))
	ctx := context.Background()

	first, err := s.GetOrCreate(ctx, "shop.myshopify.com", "customer-1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMaxGarageVehicles, first.MaxVehicles)

	second, err := s.GetOrCreate(ctx, "shop.myshopify.com", "customer-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestSetPrimaryIsExclusive(t *testing.T) {
	s := NewGarageStore(testDB(t))
	ctx := context.Background()

	garage, err := s.GetOrCreate(ctx, "shop.myshopify.com", "customer-1")
	require.NoError(t, err)

	v1 := seedGarageVehicle(t, s, garage.ID, true)
	v2 := seedGarageVehicle(t, s, garage.ID, false)

	require.NoError(t, s.SetPrimary(ctx, garage.ID, v2.ID))

	vehicles, err := s.ListVehicles(ctx, garage.ID)
	require.NoError(t, err)

	primaries := 0
	for _, v := range vehicles {
		if v.IsPrimary {
			primaries++
			assert.Equal(t, v2.ID, v.ID)
		}
	}
	assert.Equal(t, 1, primaries)
	_ = v1
}

func TestSetPrimaryRejectsForeignVehicle(t *testing.T) {
	s := NewGarageStore(testDB(t))
	ctx := context.Background()

	mine, err := s.GetOrCreate(ctx, "shop.myshopify.com", "customer-1")
	require.NoError(t, err)
	theirs, err := s.GetOrCreate(ctx, "shop.myshopify.com", "customer-2")
	require.NoError(t, err)

	foreign := seedGarageVehicle(t, s, theirs.ID, true)

	assert.Error(t, s.SetPrimary(ctx, mine.ID, foreign.ID))
}

func TestDeleteVehicleCascadeRemovesChildren(t *testing.T) {
	s := NewGarageStore(testDB(t))
	ctx := context.Background()

	garage, err := s.GetOrCreate(ctx, "shop.myshopify.com", "customer-1")
	require.NoError(t, err)
	v := seedGarageVehicle(t, s, garage.ID, true)

	require.NoError(t, s.CreateReminder(ctx, &models.MaintenanceReminder{
		VehicleID:     v.ID,
		Kind:          "oil_change",
		IntervalType:  models.IntervalMileage,
		IntervalMiles: 5000,
		IsActive:      true,
	}))
	require.NoError(t, s.CreateAlert(ctx, &models.PriceAlert{
		VehicleID: v.ID,
		ProductID: "p1",
		AlertType: models.AlertPriceDrop,
		IsActive:  true,
	}))
	require.NoError(t, s.CreatePurchase(ctx, &models.PurchaseHistory{
		VehicleID:   v.ID,
		ProductID:   "p1",
		PurchasedAt: time.Now(),
	}))

	require.NoError(t, s.DeleteVehicleCascade(ctx, v.ID))

	gone, err := s.GetVehicle(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	reminders, err := s.ListReminders(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, reminders)

	alerts, err := s.PendingAlerts(ctx, "shop.myshopify.com")
	require.NoError(t, err)
	assert.Empty(t, alerts)

	purchases, err := s.ListPurchases(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestPendingAlertsScopedToMerchantAndState(t *testing.T) {
	s := NewGarageStore(testDB(t))
	ctx := context.Background()

	mine, err := s.GetOrCreate(ctx, "first.myshopify.com", "customer-1")
	require.NoError(t, err)
	other, err := s.GetOrCreate(ctx, "second.myshopify.com", "customer-2")
	require.NoError(t, err)

	myVehicle := seedGarageVehicle(t, s, mine.ID, true)
	otherVehicle := seedGarageVehicle(t, s, other.ID, true)

	pending := &models.PriceAlert{VehicleID: myVehicle.ID, ProductID: "p1", AlertType: models.AlertPriceDrop, IsActive: true}
	require.NoError(t, s.CreateAlert(ctx, pending))

	fired := &models.PriceAlert{VehicleID: myVehicle.ID, ProductID: "p2", AlertType: models.AlertBackInStock, IsActive: true}
	require.NoError(t, s.CreateAlert(ctx, fired))
	require.NoError(t, s.MarkAlertTriggered(ctx, fired.ID, time.Now()))

	foreign := &models.PriceAlert{VehicleID: otherVehicle.ID, ProductID: "p3", AlertType: models.AlertPriceDrop, IsActive: true}
	require.NoError(t, s.CreateAlert(ctx, foreign))

	alerts, err := s.PendingAlerts(ctx, "first.myshopify.com")
	require.NoError(t, err)

	require.Len(t, alerts, 1)
	assert.Equal(t, pending.ID, alerts[0].ID)
}

func TestMarkAlertTriggeredIsOneShot(t *testing.T) {
	s := NewGarageStore(testDB(t))
	ctx := context.Background()

	garage, err := s.GetOrCreate(ctx, "shop.myshopify.com", "customer-1")
	require.NoError(t, err)
	v := seedGarageVehicle(t, s, garage.ID, true)

	alert := &models.PriceAlert{VehicleID: v.ID, ProductID: "p1", AlertType: models.AlertPriceDrop, IsActive: true}
	require.NoError(t, s.CreateAlert(ctx, alert))

	at := time.Now()
	require.NoError(t, s.MarkAlertTriggered(ctx, alert.ID, at))

	alerts, err := s.PendingAlerts(ctx, "shop.myshopify.com")
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestListPurchasesNewestFirst(t *testing.T) {
	s := NewGarageStore(testDB(t))
	ctx := context.Background()

	garage, err := s.GetOrCreate(ctx, "shop.myshopify.com", "customer-1")
	require.NoError(t, err)
	v := seedGarageVehicle(t, s, garage.ID, true)

	older := time.Now().Add(-24 * time.Hour)
	newer := time.Now()
	require.NoError(t, s.CreatePurchase(ctx, &models.PurchaseHistory{VehicleID: v.ID, ProductID: "p1", PurchasedAt: older}))
	require.NoError(t, s.CreatePurchase(ctx, &models.PurchaseHistory{VehicleID: v.ID, ProductID: "p2", PurchasedAt: newer}))

	purchases, err := s.ListPurchases(ctx, v.ID)
	require.NoError(t, err)

	require.Len(t, purchases, 2)
	assert.Equal(t, "p2", purchases[0].ProductID)
}
