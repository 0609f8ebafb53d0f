// Package garage implements the customer-facing saved-vehicle service:
// garage CRUD, maintenance reminders, price alerts and purchase history.
package garage

import (
	"context"
	"fmt"
	"time"

	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// CapacityError means the garage is already at its vehicle limit. The
// rejected add leaves the garage unchanged.
type CapacityError struct {
	Max int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("garage is full (limit %d vehicles)", e.Max)
}

// Garages is the persistence surface the service drives.
type Garages interface {
	GetOrCreate(ctx context.Context, merchantID, customerID string) (*models.CustomerGarage, error)
	VehicleCount(ctx context.Context, garageID string) (int64, error)
	ListVehicles(ctx context.Context, garageID string) ([]models.GarageVehicle, error)
	GetVehicle(ctx context.Context, vehicleID string) (*models.GarageVehicle, error)
	CreateVehicle(ctx context.Context, v *models.GarageVehicle) error
	UpdateVehicle(ctx context.Context, v *models.GarageVehicle) error
	SetPrimary(ctx context.Context, garageID, vehicleID string) error
	DeleteVehicleCascade(ctx context.Context, vehicleID string) error
	CreateReminder(ctx context.Context, r *models.MaintenanceReminder) error
	GetReminder(ctx context.Context, id string) (*models.MaintenanceReminder, error)
	ListReminders(ctx context.Context, vehicleID string) ([]models.MaintenanceReminder, error)
	UpdateReminder(ctx context.Context, r *models.MaintenanceReminder) error
	CreateAlert(ctx context.Context, a *models.PriceAlert) error
	PendingAlerts(ctx context.Context, merchantID string) ([]models.PriceAlert, error)
	MarkAlertTriggered(ctx context.Context, id string, at time.Time) error
	CreatePurchase(ctx context.Context, p *models.PurchaseHistory) error
	ListPurchases(ctx context.Context, vehicleID string) ([]models.PurchaseHistory, error)
}

// Catalog resolves tracked products for alert evaluation.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*models.TrackedProduct, error)
}

type Service struct {
	garages Garages
	catalog Catalog
	logger  *logger.Logger
	now     func() time.Time
}

func NewService(garages Garages, catalog Catalog, logger *logger.Logger) *Service {
	return &Service{
		garages: garages,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// VehicleInput is the customer-supplied vehicle descriptor.
type VehicleInput struct {
	Year     int     `json:"year" binding:"required"`
	Make     string  `json:"make" binding:"required"`
	Model    string  `json:"model" binding:"required"`
	Submodel string  `json:"submodel"`
	Nickname *string `json:"nickname"`
	Color    *string `json:"color"`
	Mileage  int     `json:"mileage"`
	VIN      *string `json:"vin"`
}

// Garage returns the customer's garage and its vehicles, creating the
// garage lazily on first interaction.
func (s *Service) Garage(ctx context.Context, merchantID, customerID string) (*models.CustomerGarage, []models.GarageVehicle, error) {
	garage, err := s.garages.GetOrCreate(ctx, merchantID, customerID)
	if err != nil {
		return nil, nil, err
	}
	vehicles, err := s.garages.ListVehicles(ctx, garage.ID)
	if err != nil {
		return nil, nil, err
	}
	return garage, vehicles, nil
}

// AddVehicle saves a vehicle into the customer's garage, seeding the default
// maintenance reminders. The first vehicle becomes primary.
func (s *Service) AddVehicle(ctx context.Context, merchantID, customerID string, input VehicleInput) (*models.GarageVehicle, error) {
	garage, err := s.garages.GetOrCreate(ctx, merchantID, customerID)
	if err != nil {
		return nil, err
	}

	count, err := s.garages.VehicleCount(ctx, garage.ID)
	if err != nil {
		return nil, err
	}
	if count >= int64(garage.MaxVehicles) {
		return nil, &CapacityError{Max: garage.MaxVehicles}
	}

	vehicle := &models.GarageVehicle{
		GarageID:  garage.ID,
		Year:      input.Year,
		Make:      input.Make,
		Model:     input.Model,
		Submodel:  input.Submodel,
		Nickname:  input.Nickname,
		Color:     input.Color,
		Mileage:   input.Mileage,
		VIN:       input.VIN,
		IsPrimary: count == 0,
	}
	if err := s.garages.CreateVehicle(ctx, vehicle); err != nil {
		return nil, err
	}

	if err := s.seedDefaultReminders(ctx, vehicle); err != nil {
		// The vehicle itself is saved; reminder seeding is best-effort.
		s.logger.Error("Failed to seed reminders for vehicle %s: %v", vehicle.ID, err)
	}
	return vehicle, nil
}

// UpdateVehicle applies customer edits to nickname, color, mileage and VIN.
func (s *Service) UpdateVehicle(ctx context.Context, vehicleID string, input VehicleInput) (*models.GarageVehicle, error) {
	vehicle, err := s.garages.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, fmt.Errorf("vehicle %s not found", vehicleID)
	}

	vehicle.Nickname = input.Nickname
	vehicle.Color = input.Color
	vehicle.VIN = input.VIN
	if input.Mileage > 0 {
		vehicle.Mileage = input.Mileage
	}
	if err := s.garages.UpdateVehicle(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// SetPrimaryVehicle makes one vehicle the garage's primary; any other
// primary is unset in the same logical write.
func (s *Service) SetPrimaryVehicle(ctx context.Context, vehicleID string) error {
	vehicle, err := s.garages.GetVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}
	if vehicle == nil {
		return fmt.Errorf("vehicle %s not found", vehicleID)
	}
	return s.garages.SetPrimary(ctx, vehicle.GarageID, vehicleID)
}

// RemoveVehicle deletes the vehicle and all its owned reminders, alerts and
// purchase history.
func (s *Service) RemoveVehicle(ctx context.Context, vehicleID string) error {
	return s.garages.DeleteVehicleCascade(ctx, vehicleID)
}
