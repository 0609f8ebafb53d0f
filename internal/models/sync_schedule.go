package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncType is the closed set of reconciliation operations a schedule or a
// manual trigger can name. Dispatch over it is an exhaustive switch.
type SyncType string

const (
	SyncTypeInventory SyncType = "inventory"
	SyncTypePricing   SyncType = "pricing"
	SyncTypeProducts  SyncType = "products"
	SyncTypeFull      SyncType = "full"
)

// ParseSyncType validates a raw sync type coming in from the API layer.
func ParseSyncType(s string) (SyncType, error) {
	switch t := SyncType(s); t {
	case SyncTypeInventory, SyncTypePricing, SyncTypeProducts, SyncTypeFull:
		return t, nil
	}
	return "", fmt.Errorf("unknown sync type %q", s)
}

type SyncFrequency string

const (
	FrequencyHourly SyncFrequency = "hourly"
	FrequencyDaily  SyncFrequency = "daily"
	FrequencyWeekly SyncFrequency = "weekly"
	FrequencyManual SyncFrequency = "manual"
)

// ParseSyncFrequency validates a raw frequency coming in from the API layer.
func ParseSyncFrequency(s string) (SyncFrequency, error) {
	switch f := SyncFrequency(s); f {
	case FrequencyHourly, FrequencyDaily, FrequencyWeekly, FrequencyManual:
		return f, nil
	}
	return "", fmt.Errorf("unknown sync frequency %q", s)
}

// SyncSettings are the typed per-schedule knobs. Stored as JSON but always
// validated at the store boundary rather than handled as an opaque blob.
type SyncSettings struct {
	MaxNewProducts     int      `json:"max_new_products"`
	DefaultMarkup      float64  `json:"default_markup"`
	BrandFilter        []string `json:"brand_filter,omitempty"`
	CompatibilityLimit int      `json:"compatibility_limit"`
}

// Validate normalizes zero values to usable defaults and rejects nonsense.
func (s *SyncSettings) Validate() error {
	if s.MaxNewProducts < 0 {
		return fmt.Errorf("max_new_products must not be negative")
	}
	if s.MaxNewProducts == 0 {
		s.MaxNewProducts = 50
	}
	if s.DefaultMarkup < 0 {
		return fmt.Errorf("default_markup must not be negative")
	}
	if s.CompatibilityLimit < 0 {
		return fmt.Errorf("compatibility_limit must not be negative")
	}
	if s.CompatibilityLimit == 0 {
		s.CompatibilityLimit = 100
	}
	return nil
}

// SyncSchedule is a named recurring job definition for one merchant.
type SyncSchedule struct {
	ID         string        `json:"id" gorm:"type:uuid;primary_key"`
	MerchantID string        `json:"merchant_id" gorm:"index;not null"`
	Name       string        `json:"name" gorm:"not null"`
	SyncType   SyncType      `json:"sync_type" gorm:"not null"`
	Frequency  SyncFrequency `json:"frequency" gorm:"not null"`
	IsActive   bool          `json:"is_active" gorm:"default:true"`
	LastRunAt  *time.Time    `json:"last_run_at"`
	NextRunAt  *time.Time    `json:"next_run_at" gorm:"index"`
	Settings   SyncSettings  `json:"settings" gorm:"serializer:json"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (s *SyncSchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
