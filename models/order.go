package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrZeroWeight is returned when a weigh-in would divide by a stored weight
// of zero. The unit price is reconstructed from total_price/weight, so a
// zero stored weight makes the recompute undefined.
var ErrZeroWeight = errors.New("order has zero stored weight, unit price cannot be derived")

// Order represents one laundry job placed by a customer against a shop.
// ServiceName and the price baked into TotalPrice are snapshots taken at
// order time; later edits to the shop's service list never touch them.
type Order struct {
	ID            string          `gorm:"primaryKey;type:uuid" json:"id"`
	CustomerID    string          `gorm:"not null;index;type:uuid" json:"customer_id"`
	Customer      Profile         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ShopID        string          `gorm:"not null;index;type:uuid" json:"shop_id"`
	Shop          Shop            `gorm:"foreignKey:ShopID" json:"-"`
	ServiceName   string          `gorm:"not null" json:"service_name"`
	Status        Status          `gorm:"not null;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"not null;default:'unpaid'" json:"payment_status"`
	Weight        decimal.Decimal `gorm:"type:numeric;not null" json:"weight"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric;not null" json:"total_price"`
	PickupAddress string          `gorm:"type:text;not null" json:"pickup_address"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Latitude      *float64        `json:"latitude,omitempty"`
	Longitude     *float64        `json:"longitude,omitempty"`
	Version       int             `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// UnitPrice derives the per-unit price from the stored totals.
// Returns ErrZeroWeight when the stored weight is zero.
func (o *Order) UnitPrice() (decimal.Decimal, error) {
	if o.Weight.IsZero() {
		return decimal.Zero, ErrZeroWeight
	}
	return o.TotalPrice.Div(o.Weight), nil
}

// RecomputeAtWeighIn returns the new total after the operator confirms the
// real weight: (stored_total / stored_weight) * confirmed. The stored values
// must come from a fresh read, never from a stale client copy.
func (o *Order) RecomputeAtWeighIn(confirmed decimal.Decimal) (decimal.Decimal, error) {
	unit, err := o.UnitPrice()
	if err != nil {
		return decimal.Zero, err
	}
	return unit.Mul(confirmed), nil
}

// IsActive reports whether the order still needs attention from the shop.
func (o *Order) IsActive() bool {
	return !o.Status.IsTerminal()
}
