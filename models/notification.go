package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification kinds.
const (
	NotificationStatusChange  = "status_change"
	NotificationPaymentChange = "payment_change"
)

// Notification is a bookkeeping row recording that an order event was
// signalled to an account. One is written for every successful status
// transition and payment toggle; delivery itself happens out of band
// (change feed, WhatsApp link).
type Notification struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	OrderID     string         `gorm:"not null;index;type:uuid" json:"order_id"`
	Order       Order          `gorm:"foreignKey:OrderID" json:"-"`
	RecipientID string         `gorm:"not null;index;type:uuid" json:"recipient_id"`
	Recipient   Profile        `gorm:"foreignKey:RecipientID" json:"-"`
	Kind        string         `gorm:"not null" json:"kind"`
	Body        string         `gorm:"type:text;not null" json:"body"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
