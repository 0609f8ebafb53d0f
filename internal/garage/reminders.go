package garage

import (
	"context"
	"fmt"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// Default reminder intervals seeded onto every new garage vehicle.
const (
	oilChangeMiles   = 5000
	oilChangeMonths  = 6
	tireRotateMiles  = 7500
	brakeCheckMonths = 12
)

func (s *Service) seedDefaultReminders(ctx context.Context, vehicle *models.GarageVehicle) error {
	now := s.now()

	defaults := []models.MaintenanceReminder{
		{
			VehicleID:      vehicle.ID,
			Kind:           "oil_change",
			IntervalType:   models.IntervalBoth,
			IntervalMiles:  oilChangeMiles,
			IntervalMonths: oilChangeMonths,
		},
		{
			VehicleID:     vehicle.ID,
			Kind:          "tire_rotation",
			IntervalType:  models.IntervalMileage,
			IntervalMiles: tireRotateMiles,
		},
		{
			VehicleID:      vehicle.ID,
			Kind:           "brake_inspection",
			IntervalType:   models.IntervalTime,
			IntervalMonths: brakeCheckMonths,
		},
	}

	for i := range defaults {
		r := &defaults[i]
		r.IsActive = true
		if r.IntervalType == models.IntervalTime || r.IntervalType == models.IntervalBoth {
			due := now.AddDate(0, r.IntervalMonths, 0)
			r.NextDueAt = &due
		}
		if r.IntervalType == models.IntervalMileage || r.IntervalType == models.IntervalBoth {
			next := vehicle.Mileage + r.IntervalMiles
			r.NextMileage = &next
		}
		if err := s.garages.CreateReminder(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// ListReminders returns the vehicle's maintenance reminders.
func (s *Service) ListReminders(ctx context.Context, vehicleID string) ([]models.MaintenanceReminder, error) {
	return s.garages.ListReminders(ctx, vehicleID)
}

// CompleteReminder marks a reminder done at the supplied mileage and
// recomputes when it is next due from its interval type.
func (s *Service) CompleteReminder(ctx context.Context, reminderID string, currentMileage int) (*models.MaintenanceReminder, error) {
	reminder, err := s.garages.GetReminder(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	if reminder == nil {
		return nil, fmt.Errorf("reminder %s not found", reminderID)
	}

	now := s.now()
	reminder.LastDoneAt = &now

	switch reminder.IntervalType {
	case models.IntervalTime:
		due := now.AddDate(0, reminder.IntervalMonths, 0)
		reminder.NextDueAt = &due
	case models.IntervalMileage:
		next := currentMileage + reminder.IntervalMiles
		reminder.NextMileage = &next
		reminder.LastMileage = &currentMileage
	case models.IntervalBoth:
		due := now.AddDate(0, reminder.IntervalMonths, 0)
		reminder.NextDueAt = &due
		next := currentMileage + reminder.IntervalMiles
		reminder.NextMileage = &next
		reminder.LastMileage = &currentMileage
	}

	if err := s.garages.UpdateReminder(ctx, reminder); err != nil {
		return nil, err
	}

	// Completing at a higher mileage also rolls the vehicle odometer forward.
	if currentMileage > 0 {
		if vehicle, err := s.garages.GetVehicle(ctx, reminder.VehicleID); err == nil && vehicle != nil && currentMileage > vehicle.Mileage {
			vehicle.Mileage = currentMileage
			if err := s.garages.UpdateVehicle(ctx, vehicle); err != nil {
				s.logger.Error("Failed to roll odometer for vehicle %s: %v", vehicle.ID, err)
			}
		}
	}

	return reminder, nil
}
