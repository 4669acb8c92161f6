package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laundryin-id/laundryin-api/models"
)

// RollupService writes each shop's daily order statistics. It runs nightly
// at 02:00 and aggregates the previous calendar day.
type RollupService struct {
	db   *gorm.DB
	cron *cron.Cron
}

// NewRollupService creates the rollup job runner
func NewRollupService(db *gorm.DB) *RollupService {
	return &RollupService{
		db:   db,
		cron: cron.New(),
	}
}

// Start schedules the nightly rollup
func (s *RollupService) Start() error {
	_, err := s.cron.AddFunc("0 2 * * *", func() {
		yesterday := time.Now().AddDate(0, 0, -1)
		if err := s.RollupDay(yesterday); err != nil {
			log.Printf("daily rollup failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Daily revenue rollup job started (02:00)")
	return nil
}

// Stop stops the scheduled rollup
func (s *RollupService) Stop() {
	s.cron.Stop()
}

// RollupDay aggregates every shop's orders created on the given day into
// shop_daily_stats. Revenue counts completed orders only, matching the
// dashboard income figure. Re-running a day overwrites its rows.
func (s *RollupService) RollupDay(day time.Time) error {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	dayKey := dayStart.Format("2006-01-02")

	var shops []models.Shop
	if err := s.db.Find(&shops).Error; err != nil {
		return fmt.Errorf("failed to list shops: %w", err)
	}

	for _, shop := range shops {
		var orders []models.Order
		if err := s.db.
			Where("shop_id = ? AND created_at >= ? AND created_at < ?", shop.ID, dayStart, dayEnd).
			Find(&orders).Error; err != nil {
			return fmt.Errorf("failed to load orders for shop %s: %w", shop.ID, err)
		}

		var completed int64
		revenue := decimal.Zero
		for _, order := range orders {
			if order.Status == models.StatusCompleted {
				completed++
				revenue = revenue.Add(order.TotalPrice)
			}
		}

		stat := models.ShopDailyStat{
			ID:          uuid.NewString(),
			ShopID:      shop.ID,
			Day:         dayKey,
			OrdersTotal: int64(len(orders)),
			Completed:   completed,
			Revenue:     revenue,
		}

		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shop_id"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"orders_total", "completed", "revenue", "updated_at"}),
		}).Create(&stat).Error; err != nil {
			return fmt.Errorf("failed to upsert stat for shop %s: %w", shop.ID, err)
		}
	}

	return nil
}
