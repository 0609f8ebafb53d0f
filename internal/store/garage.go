package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// GarageStore keeps customer garages and their owned child records. Child
// rows are deleted before parents inside one transaction; the schema carries
// no declarative cascades.
type GarageStore struct {
	db *gorm.DB
}

func NewGarageStore(db *gorm.DB) *GarageStore {
	return &GarageStore{db: db}
}

// GetOrCreate returns the customer's garage, creating it lazily on first
// interaction.
func (s *GarageStore) GetOrCreate(ctx context.Context, merchantID, customerID string) (*models.CustomerGarage, error) {
	var garage models.CustomerGarage
	err := s.db.WithContext(ctx).
		Where("merchant_id = ? AND customer_id = ?", merchantID, customerID).
		First(&garage).Error
	if err == nil {
		return &garage, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch garage: %w", err)
	}

	garage = models.CustomerGarage{
		MerchantID:  merchantID,
		CustomerID:  customerID,
		MaxVehicles: models.DefaultMaxGarageVehicles,
	}
	if err := s.db.WithContext(ctx).Create(&garage).Error; err != nil {
		return nil, fmt.Errorf("failed to create garage: %w", err)
	}
	return &garage, nil
}

func (s *GarageStore) VehicleCount(ctx context.Context, garageID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.GarageVehicle{}).
		Where("garage_id = ?", garageID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count garage vehicles: %w", err)
	}
	return count, nil
}

func (s *GarageStore) ListVehicles(ctx context.Context, garageID string) ([]models.GarageVehicle, error) {
	var vehicles []models.GarageVehicle
	err := s.db.WithContext(ctx).
		Where("garage_id = ?", garageID).
		Order("created_at ASC").
		Find(&vehicles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list garage vehicles: %w", err)
	}
	return vehicles, nil
}

func (s *GarageStore) GetVehicle(ctx context.Context, vehicleID string) (*models.GarageVehicle, error) {
	var v models.GarageVehicle
	if err := s.db.WithContext(ctx).First(&v, "id = ?", vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch garage vehicle: %w", err)
	}
	return &v, nil
}

func (s *GarageStore) CreateVehicle(ctx context.Context, v *models.GarageVehicle) error {
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("failed to create garage vehicle: %w", err)
	}
	return nil
}

func (s *GarageStore) UpdateVehicle(ctx context.Context, v *models.GarageVehicle) error {
	if err := s.db.WithContext(ctx).Save(v).Error; err != nil {
		return fmt.Errorf("failed to update garage vehicle: %w", err)
	}
	return nil
}

// SetPrimary makes the vehicle the garage's primary, unsetting any other
// primary in the same logical write.
func (s *GarageStore) SetPrimary(ctx context.Context, garageID, vehicleID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.GarageVehicle{}).
			Where("garage_id = ? AND id <> ?", garageID, vehicleID).
			Update("is_primary", false).Error
		if err != nil {
			return fmt.Errorf("failed to unset primary vehicles: %w", err)
		}
		res := tx.Model(&models.GarageVehicle{}).
			Where("garage_id = ? AND id = ?", garageID, vehicleID).
			Update("is_primary", true)
		if res.Error != nil {
			return fmt.Errorf("failed to set primary vehicle: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("vehicle %s not found in garage %s", vehicleID, garageID)
		}
		return nil
	})
}

// DeleteVehicleCascade removes the vehicle and every owned child record in
// one transaction, children first.
func (s *GarageStore) DeleteVehicleCascade(ctx context.Context, vehicleID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MaintenanceReminder{}, "vehicle_id = ?", vehicleID).Error; err != nil {
			return fmt.Errorf("failed to delete reminders: %w", err)
		}
		if err := tx.Delete(&models.PriceAlert{}, "vehicle_id = ?", vehicleID).Error; err != nil {
			return fmt.Errorf("failed to delete price alerts: %w", err)
		}
		if err := tx.Delete(&models.PurchaseHistory{}, "vehicle_id = ?", vehicleID).Error; err != nil {
			return fmt.Errorf("failed to delete purchase history: %w", err)
		}
		if err := tx.Delete(&models.GarageVehicle{}, "id = ?", vehicleID).Error; err != nil {
			return fmt.Errorf("failed to delete garage vehicle: %w", err)
		}
		return nil
	})
}

func (s *GarageStore) CreateReminder(ctx context.Context, r *models.MaintenanceReminder) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (s *GarageStore) GetReminder(ctx context.Context, id string) (*models.MaintenanceReminder, error) {
	var r models.MaintenanceReminder
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch reminder: %w", err)
	}
	return &r, nil
}

func (s *GarageStore) ListReminders(ctx context.Context, vehicleID string) ([]models.MaintenanceReminder, error) {
	var reminders []models.MaintenanceReminder
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

func (s *GarageStore) UpdateReminder(ctx context.Context, r *models.MaintenanceReminder) error {
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return nil
}

func (s *GarageStore) CreateAlert(ctx context.Context, a *models.PriceAlert) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create price alert: %w", err)
	}
	return nil
}

// PendingAlerts returns every active, not-yet-triggered alert belonging to
// the merchant's customers.
func (s *GarageStore) PendingAlerts(ctx context.Context, merchantID string) ([]models.PriceAlert, error) {
	var alerts []models.PriceAlert
	err := s.db.WithContext(ctx).
		Model(&models.PriceAlert{}).
		Joins("JOIN garage_vehicles ON garage_vehicles.id = price_alerts.vehicle_id").
		Joins("JOIN customer_garages ON customer_garages.id = garage_vehicles.garage_id").
		Where("customer_garages.merchant_id = ?", merchantID).
		Where("price_alerts.is_active = ? AND price_alerts.triggered = ?", true, false).
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending alerts: %w", err)
	}
	return alerts, nil
}

// MarkAlertTriggered fires the one-shot alert; it does not re-arm.
func (s *GarageStore) MarkAlertTriggered(ctx context.Context, id string, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.PriceAlert{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"triggered":    true,
			"triggered_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark alert triggered: %w", err)
	}
	return nil
}

func (s *GarageStore) CreatePurchase(ctx context.Context, p *models.PurchaseHistory) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to record purchase: %w", err)
	}
	return nil
}

func (s *GarageStore) ListPurchases(ctx context.Context, vehicleID string) ([]models.PurchaseHistory, error) {
	var purchases []models.PurchaseHistory
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("purchased_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}
