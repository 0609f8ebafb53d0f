package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xndroli/lucrative-growth-app/internal/models"
)

// VehicleStore keeps the distributor vehicle taxonomy and the many-to-many
// compatibility edges between tracked products and vehicles.
type VehicleStore struct {
	db *gorm.DB
}

func NewVehicleStore(db *gorm.DB) *VehicleStore {
	return &VehicleStore{db: db}
}

// UpsertVehicle writes the vehicle by its (year, make, model, submodel)
// natural key and reports whether the row was created. A freshly created row
// has identical creation/update timestamps; an updated one does not.
func (s *VehicleStore) UpsertVehicle(ctx context.Context, v *models.VehicleRecord) (bool, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "year"}, {Name: "make"}, {Name: "model"}, {Name: "submodel"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"turn14_vehicle_id", "engine", "transmission", "drive_type",
				"body_style", "is_active", "updated_at",
			}),
		}).
		Create(v).Error
	if err != nil {
		return false, fmt.Errorf("failed to upsert vehicle: %w", err)
	}

	var saved models.VehicleRecord
	err = s.db.WithContext(ctx).
		Where("year = ? AND make = ? AND model = ? AND submodel = ?", v.Year, v.Make, v.Model, v.Submodel).
		First(&saved).Error
	if err != nil {
		return false, fmt.Errorf("failed to reload vehicle after upsert: %w", err)
	}

	*v = saved
	return saved.CreatedAt.Equal(saved.UpdatedAt), nil
}

// Deactivate marks a vehicle no longer present upstream. Vehicles are never
// deleted.
func (s *VehicleStore) Deactivate(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).
		Model(&models.VehicleRecord{}).
		Where("id = ?", id).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate vehicle: %w", err)
	}
	return nil
}

func (s *VehicleStore) GetVehicle(ctx context.Context, id string) (*models.VehicleRecord, error) {
	var v models.VehicleRecord
	if err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch vehicle: %w", err)
	}
	return &v, nil
}

// ReplaceEdges swaps the full compatibility set for one product inside a
// single transaction, so a failed resync can never leave the product with a
// partial edge set.
func (s *VehicleStore) ReplaceEdges(ctx context.Context, merchantID, productID string, edges []models.CompatibilityEdge) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("merchant_id = ? AND product_id = ?", merchantID, productID).
			Delete(&models.CompatibilityEdge{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete compatibility edges: %w", err)
		}
		if len(edges) == 0 {
			return nil
		}
		if err := tx.Create(&edges).Error; err != nil {
			return fmt.Errorf("failed to insert compatibility edges: %w", err)
		}
		return nil
	})
}

func (s *VehicleStore) EdgesForProduct(ctx context.Context, merchantID, productID string) ([]models.CompatibilityEdge, error) {
	var edges []models.CompatibilityEdge
	err := s.db.WithContext(ctx).
		Where("merchant_id = ? AND product_id = ?", merchantID, productID).
		Order("year, make, model, submodel").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list compatibility edges: %w", err)
	}
	return edges, nil
}

// FindExactEdge looks for a non-universal edge matching the vehicle
// descriptor. An edge with an empty submodel fits every submodel of its
// year/make/model.
func (s *VehicleStore) FindExactEdge(ctx context.Context, merchantID, productID string, year int, make, model, submodel string) (*models.CompatibilityEdge, error) {
	query := s.db.WithContext(ctx).
		Where("merchant_id = ? AND product_id = ? AND is_universal = ?", merchantID, productID, false).
		Where("year = ? AND make = ? AND model = ?", year, make, model)
	if submodel != "" {
		query = query.Where("submodel IN ?", []string{submodel, ""})
	}

	var edge models.CompatibilityEdge
	if err := query.First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up compatibility edge: %w", err)
	}
	return &edge, nil
}

// FindUniversalEdge looks for a universal-fit edge on the product.
func (s *VehicleStore) FindUniversalEdge(ctx context.Context, merchantID, productID string) (*models.CompatibilityEdge, error) {
	var edge models.CompatibilityEdge
	err := s.db.WithContext(ctx).
		Where("merchant_id = ? AND product_id = ? AND is_universal = ?", merchantID, productID, true).
		First(&edge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up universal edge: %w", err)
	}
	return &edge, nil
}

// FitmentQuery selects products compatible with one vehicle descriptor.
type FitmentQuery struct {
	Year     int
	Make     string
	Model    string
	Submodel string
	Category string
	Brand    string
	Limit    int
}

// FindCompatibleProducts joins matching edges (exact or universal) to active
// tracked products, optionally narrowed by category and brand.
func (s *VehicleStore) FindCompatibleProducts(ctx context.Context, merchantID string, q FitmentQuery) ([]models.TrackedProduct, error) {
	edgeMatch := "(compatibility_edges.is_universal = ? OR (compatibility_edges.year = ? AND compatibility_edges.make = ? AND compatibility_edges.model = ?"
	args := []interface{}{true, q.Year, q.Make, q.Model}
	if q.Submodel != "" {
		edgeMatch += " AND compatibility_edges.submodel IN (?)"
		args = append(args, []string{q.Submodel, ""})
	}
	edgeMatch += "))"

	query := s.db.WithContext(ctx).
		Model(&models.TrackedProduct{}).
		Distinct("tracked_products.*").
		Joins("JOIN compatibility_edges ON compatibility_edges.product_id = tracked_products.id").
		Where("tracked_products.merchant_id = ? AND tracked_products.sync_status = ?", merchantID, models.SyncStatusActive).
		Where(edgeMatch, args...)

	if q.Category != "" {
		query = query.Where("tracked_products.category = ?", q.Category)
	}
	if q.Brand != "" {
		query = query.Where("tracked_products.brand = ?", q.Brand)
	}

	var products []models.TrackedProduct
	if err := query.Order("tracked_products.sku ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find compatible products: %w", err)
	}
	return products, nil
}
