package garage

import (
	"context"
	"fmt"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// AddPriceAlert arms a watch on a tracked product for one garage vehicle.
func (s *Service) AddPriceAlert(ctx context.Context, vehicleID, productID string, alertType models.AlertType, targetPrice float64) (*models.PriceAlert, error) {
	vehicle, err := s.garages.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, fmt.Errorf("vehicle %s not found", vehicleID)
	}

	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %s not found", productID)
	}

	alert := &models.PriceAlert{
		VehicleID:   vehicleID,
		ProductID:   productID,
		AlertType:   alertType,
		TargetPrice: targetPrice,
		IsActive:    true,
	}
	if err := s.garages.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// TriggeredAlert pairs a fired alert with the product state that fired it.
type TriggeredAlert struct {
	Alert   models.PriceAlert     `json:"alert"`
	Product models.TrackedProduct `json:"product"`
}

// CheckPriceAlerts scans the merchant's active, not-yet-triggered alerts
// against current catalog state. Triggering is one-shot: a fired alert does
// not re-arm.
func (s *Service) CheckPriceAlerts(ctx context.Context, merchantID string) ([]TriggeredAlert, error) {
	alerts, err := s.garages.PendingAlerts(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	var triggered []TriggeredAlert
	for _, alert := range alerts {
		product, err := s.catalog.GetByID(ctx, alert.ProductID)
		if err != nil {
			s.logger.Error("Failed to load product %s for alert %s: %v", alert.ProductID, alert.ID, err)
			continue
		}
		if product == nil {
			continue
		}

		fire := false
		switch alert.AlertType {
		case models.AlertPriceDrop:
			fire = product.CurrentPrice <= alert.TargetPrice
		case models.AlertBackInStock:
			fire = product.InventoryQty > 0
		}
		if !fire {
			continue
		}

		now := s.now()
		if err := s.garages.MarkAlertTriggered(ctx, alert.ID, now); err != nil {
			s.logger.Error("Failed to trigger alert %s: %v", alert.ID, err)
			continue
		}
		alert.Triggered = true
		alert.TriggeredAt = &now
		triggered = append(triggered, TriggeredAlert{Alert: alert, Product: *product})
	}

	return triggered, nil
}

// RecordPurchase stores an order line against a garage vehicle.
func (s *Service) RecordPurchase(ctx context.Context, p *models.PurchaseHistory) error {
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = s.now()
	}
	return s.garages.CreatePurchase(ctx, p)
}

// ListPurchases returns the vehicle's recorded purchases, newest first.
func (s *Service) ListPurchases(ctx context.Context, vehicleID string) ([]models.PurchaseHistory, error) {
	return s.garages.ListPurchases(ctx, vehicleID)
}
