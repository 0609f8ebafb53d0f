package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultMaxGarageVehicles caps a garage unless the merchant raises it.
const DefaultMaxGarageVehicles = 5

// CustomerGarage is one customer's saved-vehicle collection, created lazily
// on first interaction.
type CustomerGarage struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	MerchantID  string    `json:"merchant_id" gorm:"uniqueIndex:idx_merchant_customer;not null"`
	CustomerID  string    `json:"customer_id" gorm:"uniqueIndex:idx_merchant_customer;not null"`
	MaxVehicles int       `json:"max_vehicles" gorm:"default:5"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (g *CustomerGarage) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// GarageVehicle personalizes a vehicle descriptor with nickname, color,
// mileage and VIN. At most one vehicle per garage carries IsPrimary.
type GarageVehicle struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	GarageID  string    `json:"garage_id" gorm:"index;not null"`
	Year      int       `json:"year" gorm:"not null"`
	Make      string    `json:"make" gorm:"not null"`
	Model     string    `json:"model" gorm:"not null"`
	Submodel  string    `json:"submodel" gorm:"default:''"`
	Nickname  *string   `json:"nickname"`
	Color     *string   `json:"color"`
	Mileage   int       `json:"mileage"`
	VIN       *string   `json:"vin"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *GarageVehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

type ReminderInterval string

const (
	IntervalTime    ReminderInterval = "time"
	IntervalMileage ReminderInterval = "mileage"
	IntervalBoth    ReminderInterval = "both"
)

// MaintenanceReminder is a recurring service reminder owned by one garage
// vehicle. Completing it re-arms NextDueAt/NextMileage from the interval.
type MaintenanceReminder struct {
	ID             string           `json:"id" gorm:"type:uuid;primary_key"`
	VehicleID      string           `json:"vehicle_id" gorm:"index;not null"`
	Kind           string           `json:"kind" gorm:"not null"`
	IntervalType   ReminderInterval `json:"interval_type" gorm:"not null"`
	IntervalMonths int              `json:"interval_months"`
	IntervalMiles  int              `json:"interval_miles"`
	NextDueAt      *time.Time       `json:"next_due_at"`
	NextMileage    *int             `json:"next_mileage"`
	LastMileage    *int             `json:"last_mileage"`
	LastDoneAt     *time.Time       `json:"last_done_at"`
	IsActive       bool             `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (r *MaintenanceReminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

type AlertType string

const (
	AlertPriceDrop   AlertType = "price_drop"
	AlertBackInStock AlertType = "back_in_stock"
)

// PriceAlert is a one-shot watch on a tracked product; triggering flips
// Triggered and the alert does not re-arm automatically.
type PriceAlert struct {
	ID          string     `json:"id" gorm:"type:uuid;primary_key"`
	VehicleID   string     `json:"vehicle_id" gorm:"index;not null"`
	ProductID   string     `json:"product_id" gorm:"index;not null"`
	AlertType   AlertType  `json:"alert_type" gorm:"not null"`
	TargetPrice float64    `json:"target_price" gorm:"type:decimal(10,2)"`
	Triggered   bool       `json:"triggered" gorm:"default:false"`
	TriggeredAt *time.Time `json:"triggered_at"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (a *PriceAlert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// PurchaseHistory records a past order line against a garage vehicle so the
// storefront can resurface known-fitting parts.
type PurchaseHistory struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	VehicleID   string    `json:"vehicle_id" gorm:"index;not null"`
	ProductID   string    `json:"product_id" gorm:"not null"`
	SKU         string    `json:"sku"`
	OrderID     string    `json:"order_id"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2)"`
	Quantity    int       `json:"quantity"`
	PurchasedAt time.Time `json:"purchased_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *PurchaseHistory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
