package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShopDailyStat is one shop's order rollup for one calendar day, written by
// the nightly rollup job. Revenue counts completed orders only, matching the
// dashboard's income figure.
type ShopDailyStat struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	ShopID      string          `gorm:"not null;index:idx_shop_day,unique;type:uuid" json:"shop_id"`
	Day         string          `gorm:"not null;index:idx_shop_day,unique" json:"day"` // YYYY-MM-DD
	OrdersTotal int64           `gorm:"not null" json:"orders_total"`
	Completed   int64           `gorm:"not null" json:"completed"`
	Revenue     decimal.Decimal `gorm:"type:numeric;not null" json:"revenue"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the ShopDailyStat model
func (ShopDailyStat) TableName() string {
	return "shop_daily_stats"
}
