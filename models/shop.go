package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Shop represents one laundry business. Each partner account owns at most
// one shop; shops are never deleted in-app, only closed via IsOpen.
type Shop struct {
	ID          string           `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID     string           `gorm:"uniqueIndex;not null;type:uuid" json:"owner_id"`
	Owner       Profile          `gorm:"foreignKey:OwnerID" json:"-"`
	Name        string           `gorm:"not null" json:"name"`
	Address     string           `gorm:"type:text;not null" json:"address"`
	Description string           `gorm:"type:text" json:"description"`
	IsOpen      bool             `gorm:"not null;default:true" json:"is_open"`
	ImageKey    string           `json:"image_key"`
	ImageURL    string           `gorm:"-" json:"image_url,omitempty"` // computed, presigned URL
	Rating      *decimal.Decimal `gorm:"type:numeric" json:"rating,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Shop model
func (Shop) TableName() string {
	return "shops"
}
