package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DistributorConfig holds one merchant's Turn14 connection: credentials,
// environment and the brand set the merchant imports from.
type DistributorConfig struct {
	ID             string     `json:"id" gorm:"type:uuid;primary_key"`
	MerchantID     string     `json:"merchant_id" gorm:"uniqueIndex;not null"`
	APIKey         string     `json:"api_key" gorm:"not null"`
	APISecret      string     `json:"-" gorm:"not null"`
	Environment    Turn14Env  `json:"environment" gorm:"default:production"`
	SelectedBrands BrandList  `json:"selected_brands" gorm:"serializer:json"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	LastValidated  *time.Time `json:"last_validated"`
	ValidationOK   bool       `json:"validation_ok"`
	ValidationErr  *string    `json:"validation_error"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Turn14Env string

const (
	Turn14EnvSandbox    Turn14Env = "sandbox"
	Turn14EnvProduction Turn14Env = "production"
)

type BrandList []string

// Contains reports whether the brand set includes the given brand name.
func (b BrandList) Contains(brand string) bool {
	for _, v := range b {
		if v == brand {
			return true
		}
	}
	return false
}

func (c *DistributorConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
