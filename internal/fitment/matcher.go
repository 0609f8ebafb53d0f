// Package fitment answers vehicle-compatibility questions against the
// synced catalog.
package fitment

import (
	"context"
	"fmt"

	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
	"github.com/xndroli/lucrative-growth-app/internal/store"
)

// VehicleSource is the vehicle/edge store surface the matcher reads.
type VehicleSource interface {
	GetVehicle(ctx context.Context, id string) (*models.VehicleRecord, error)
	FindExactEdge(ctx context.Context, merchantID, productID string, year int, make, model, submodel string) (*models.CompatibilityEdge, error)
	FindUniversalEdge(ctx context.Context, merchantID, productID string) (*models.CompatibilityEdge, error)
	FindCompatibleProducts(ctx context.Context, merchantID string, q store.FitmentQuery) ([]models.TrackedProduct, error)
}

// CatalogSource resolves tracked products by SKU.
type CatalogSource interface {
	GetBySKU(ctx context.Context, merchantID, sku string) (*models.TrackedProduct, error)
}

// Matcher implements the fitment-determination algorithm: an exact
// (year, make, model[, submodel]) edge wins; failing that, a universal-fit
// edge makes the part compatible with every vehicle; otherwise the part does
// not fit.
type Matcher struct {
	vehicles VehicleSource
	catalog  CatalogSource
	logger   *logger.Logger
}

func NewMatcher(vehicles VehicleSource, catalog CatalogSource, logger *logger.Logger) *Matcher {
	return &Matcher{vehicles: vehicles, catalog: catalog, logger: logger}
}

// CompatibilityCheck is the answer to "does this part fit this vehicle".
type CompatibilityCheck struct {
	Compatible bool   `json:"compatible"`
	Universal  bool   `json:"universal,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// FindCompatibleProducts returns the active products with an edge matching
// the given vehicle descriptor, optionally narrowed by category and brand.
func (m *Matcher) FindCompatibleProducts(ctx context.Context, merchantID string, q store.FitmentQuery) ([]models.TrackedProduct, error) {
	if q.Year == 0 || q.Make == "" || q.Model == "" {
		return nil, fmt.Errorf("year, make and model are required")
	}
	return m.vehicles.FindCompatibleProducts(ctx, merchantID, q)
}

// CheckCompatibility resolves one vehicle against one SKU using the
// exact-then-universal fallback.
func (m *Matcher) CheckCompatibility(ctx context.Context, merchantID, vehicleID, sku string) (*CompatibilityCheck, error) {
	vehicle, err := m.vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return &CompatibilityCheck{Compatible: false, Reason: "unknown vehicle"}, nil
	}

	product, err := m.catalog.GetBySKU(ctx, merchantID, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return &CompatibilityCheck{Compatible: false, Reason: "product is not tracked"}, nil
	}

	exact, err := m.vehicles.FindExactEdge(ctx, merchantID, product.ID, vehicle.Year, vehicle.Make, vehicle.Model, vehicle.Submodel)
	if err != nil {
		return nil, err
	}
	if exact != nil {
		return &CompatibilityCheck{Compatible: true}, nil
	}

	universal, err := m.vehicles.FindUniversalEdge(ctx, merchantID, product.ID)
	if err != nil {
		return nil, err
	}
	if universal != nil {
		return &CompatibilityCheck{Compatible: true, Universal: true}, nil
	}

	return &CompatibilityCheck{
		Compatible: false,
		Reason:     fmt.Sprintf("no fitment for %d %s %s", vehicle.Year, vehicle.Make, vehicle.Model),
	}, nil
}
