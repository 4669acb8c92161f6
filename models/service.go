package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is a priced offering belonging to one shop, e.g. "wash & fold"
// at 8000 per kg. Orders snapshot the name and unit price at creation, so
// editing or deleting a service never changes existing orders.
type Service struct {
	ID            string          `gorm:"primaryKey;type:uuid" json:"id"`
	ShopID        string          `gorm:"not null;index;type:uuid" json:"shop_id"`
	Shop          Shop            `gorm:"foreignKey:ShopID" json:"-"`
	Name          string          `gorm:"not null" json:"name"`
	Price         decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Unit          string          `gorm:"not null" json:"unit"` // "kg", "item", ...
	DurationHours int             `gorm:"not null" json:"duration_hours"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
