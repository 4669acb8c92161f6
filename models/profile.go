package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values for Profile. The role is chosen at signup and is immutable
// afterwards; there is no role-change path in the API.
const (
	RoleCustomer = "customer"
	RolePartner  = "partner"
)

// Profile represents one account in the system (customer or shop partner)
type Profile struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	AuthID      string         `gorm:"uniqueIndex;not null" json:"auth_id"` // identity provider subject ('sub' claim)
	FullName    string         `gorm:"not null" json:"full_name"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber string         `json:"phone_number"`
	AvatarKey   string         `json:"avatar_key"`
	AvatarURL   string         `gorm:"-" json:"avatar_url,omitempty"` // computed, presigned URL
	Role        string         `gorm:"not null;default:'customer'" json:"role"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// IsPartner reports whether this account owns a shop side of the marketplace.
func (p *Profile) IsPartner() bool {
	return p.Role == RolePartner
}
