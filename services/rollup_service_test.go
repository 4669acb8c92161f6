package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/laundryin-id/laundryin-api/models"
)

func setupRollupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}, &models.Shop{}, &models.Order{}, &models.ShopDailyStat{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func seedRollupOrder(t *testing.T, db *gorm.DB, shopID string, status models.Status, total float64, createdAt time.Time) {
	t.Helper()

	order := models.Order{
		ID:            uuid.NewString(),
		CustomerID:    uuid.NewString(),
		ShopID:        shopID,
		ServiceName:   "Cuci Setrika",
		Status:        status,
		PaymentStatus: models.PaymentUnpaid,
		Weight:        decimal.NewFromInt(3),
		TotalPrice:    decimal.NewFromFloat(total),
		PickupAddress: "Jl. Kenanga No. 2",
		Version:       1,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	// AutoCreateTime fills created_at on insert; pin it to the test day
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("Failed to set order created_at: %v", err)
	}
}

func TestRollupDay(t *testing.T) {
	db := setupRollupDB(t)

	owner := models.Profile{ID: uuid.NewString(), AuthID: "auth0|rollup1", FullName: "Pemilik", Email: "rollup1@example.com", Role: models.RolePartner}
	assert.NoError(t, db.Create(&owner).Error)
	shop := models.Shop{ID: uuid.NewString(), OwnerID: owner.ID, Name: "Laundry Bersih", Address: "Jl. Melati No. 1", IsOpen: true}
	assert.NoError(t, db.Create(&shop).Error)

	otherOwner := models.Profile{ID: uuid.NewString(), AuthID: "auth0|rollup2", FullName: "Pemilik Lain", Email: "rollup2@example.com", Role: models.RolePartner}
	assert.NoError(t, db.Create(&otherOwner).Error)
	otherShop := models.Shop{ID: uuid.NewString(), OwnerID: otherOwner.ID, Name: "Laundry Lain", Address: "Jl. Melati No. 2", IsOpen: true}
	assert.NoError(t, db.Create(&otherShop).Error)

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	inDay := day.Add(10 * time.Hour)

	seedRollupOrder(t, db, shop.ID, models.StatusCompleted, 50000, inDay)
	seedRollupOrder(t, db, shop.ID, models.StatusCompleted, 30000, inDay.Add(time.Hour))
	seedRollupOrder(t, db, shop.ID, models.StatusPending, 24000, inDay.Add(2*time.Hour))
	seedRollupOrder(t, db, otherShop.ID, models.StatusCompleted, 99000, inDay)

	// Outside the rolled-up day
	seedRollupOrder(t, db, shop.ID, models.StatusCompleted, 77000, day.AddDate(0, 0, -1))
	seedRollupOrder(t, db, shop.ID, models.StatusCompleted, 88000, day.AddDate(0, 0, 1))

	rollup := NewRollupService(db)
	assert.NoError(t, rollup.RollupDay(day))

	var stat models.ShopDailyStat
	assert.NoError(t, db.Where("shop_id = ? AND day = ?", shop.ID, "2026-08-30").First(&stat).Error)
	assert.Equal(t, int64(3), stat.OrdersTotal)
	assert.Equal(t, int64(2), stat.Completed)
	assert.True(t, stat.Revenue.Equal(decimal.NewFromInt(80000)), "revenue = %s", stat.Revenue)

	var otherStat models.ShopDailyStat
	assert.NoError(t, db.Where("shop_id = ? AND day = ?", otherShop.ID, "2026-08-30").First(&otherStat).Error)
	assert.Equal(t, int64(1), otherStat.OrdersTotal)
	assert.True(t, otherStat.Revenue.Equal(decimal.NewFromInt(99000)))
}

func TestRollupDayRerunOverwrites(t *testing.T) {
	db := setupRollupDB(t)

	owner := models.Profile{ID: uuid.NewString(), AuthID: "auth0|rollup3", FullName: "Pemilik", Email: "rollup3@example.com", Role: models.RolePartner}
	assert.NoError(t, db.Create(&owner).Error)
	shop := models.Shop{ID: uuid.NewString(), OwnerID: owner.ID, Name: "Laundry Bersih", Address: "Jl. Melati No. 1", IsOpen: true}
	assert.NoError(t, db.Create(&shop).Error)

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	inDay := day.Add(9 * time.Hour)

	seedRollupOrder(t, db, shop.ID, models.StatusCompleted, 50000, inDay)

	rollup := NewRollupService(db)
	assert.NoError(t, rollup.RollupDay(day))

	// A late status fix lands, then the day is rolled up again
	seedRollupOrder(t, db, shop.ID, models.StatusCompleted, 20000, inDay.Add(time.Hour))
	assert.NoError(t, rollup.RollupDay(day))

	var stats []models.ShopDailyStat
	assert.NoError(t, db.Where("shop_id = ? AND day = ?", shop.ID, "2026-08-30").Find(&stats).Error)
	assert.Len(t, stats, 1, "re-running a day never duplicates rows")
	assert.Equal(t, int64(2), stats[0].OrdersTotal)
	assert.True(t, stats[0].Revenue.Equal(decimal.NewFromInt(70000)))
}

func TestRollupDayEmptyShop(t *testing.T) {
	db := setupRollupDB(t)

	owner := models.Profile{ID: uuid.NewString(), AuthID: "auth0|rollup4", FullName: "Pemilik", Email: "rollup4@example.com", Role: models.RolePartner}
	assert.NoError(t, db.Create(&owner).Error)
	shop := models.Shop{ID: uuid.NewString(), OwnerID: owner.ID, Name: "Laundry Sepi", Address: "Jl. Melati No. 3", IsOpen: true}
	assert.NoError(t, db.Create(&shop).Error)

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	rollup := NewRollupService(db)
	assert.NoError(t, rollup.RollupDay(day))

	var stat models.ShopDailyStat
	assert.NoError(t, db.Where("shop_id = ? AND day = ?", shop.ID, "2026-08-30").First(&stat).Error)
	assert.Equal(t, int64(0), stat.OrdersTotal)
	assert.True(t, stat.Revenue.IsZero())
}
