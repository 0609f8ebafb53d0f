package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehicleRecord is one canonical vehicle from the Turn14 vehicle database.
// The natural key is (year, make, model, submodel); rows are deactivated
// rather than deleted when they disappear from the distributor side.
type VehicleRecord struct {
	ID              string    `json:"id" gorm:"type:uuid;primary_key"`
	Turn14VehicleID string    `json:"turn14_vehicle_id" gorm:"index"`
	Year            int       `json:"year" gorm:"uniqueIndex:idx_vehicle_key;not null"`
	Make            string    `json:"make" gorm:"uniqueIndex:idx_vehicle_key;not null"`
	Model           string    `json:"model" gorm:"uniqueIndex:idx_vehicle_key;not null"`
	Submodel        string    `json:"submodel" gorm:"uniqueIndex:idx_vehicle_key;default:''"`
	Engine          *string   `json:"engine"`
	Transmission    *string   `json:"transmission"`
	DriveType       *string   `json:"drive_type"`
	BodyStyle       *string   `json:"body_style"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (v *VehicleRecord) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// CompatibilityEdge links a tracked product to one vehicle descriptor, or to
// every vehicle when IsUniversal is set (year/make/model left zero-valued).
// Edges are fully replaced on each per-product compatibility resync.
type CompatibilityEdge struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	MerchantID  string    `json:"merchant_id" gorm:"uniqueIndex:idx_edge_key;not null"`
	ProductID   string    `json:"product_id" gorm:"uniqueIndex:idx_edge_key;index;not null"`
	Year        int       `json:"year" gorm:"uniqueIndex:idx_edge_key"`
	Make        string    `json:"make" gorm:"uniqueIndex:idx_edge_key;default:''"`
	Model       string    `json:"model" gorm:"uniqueIndex:idx_edge_key;default:''"`
	Submodel    string    `json:"submodel" gorm:"uniqueIndex:idx_edge_key;default:''"`
	EngineNotes *string   `json:"engine_notes"`
	IsUniversal bool      `json:"is_universal" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *CompatibilityEdge) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
