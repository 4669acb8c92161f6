package controllers

import (
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/laundryin-id/laundryin-api/middleware"
	"github.com/laundryin-id/laundryin-api/models"
)

// setupTestDB opens an in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Shop{},
		&models.Service{},
		&models.Order{},
		&models.Notification{},
		&models.ShopDailyStat{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// mockAuthMiddleware injects the context values the real JWT middleware sets
func mockAuthMiddleware(authID, role, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", authID)
		c.Set("access_token", accessToken)

		customClaims := &middleware.CustomClaims{
			Role: role,
		}
		mockClaims := &validator.ValidatedClaims{
			CustomClaims: customClaims,
		}
		c.Set("validated_claims", mockClaims)

		c.Next()
	}
}

func createTestProfile(t *testing.T, db *gorm.DB, authID, role string) models.Profile {
	t.Helper()

	profile := models.Profile{
		ID:          uuid.NewString(),
		AuthID:      authID,
		FullName:    "Test " + role,
		Email:       authID + "@example.com",
		PhoneNumber: "081234567890",
		Role:        role,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}
	return profile
}

func createTestShop(t *testing.T, db *gorm.DB, ownerID string) models.Shop {
	t.Helper()

	shop := models.Shop{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        "Laundry Bersih",
		Address:     "Jl. Melati No. 1",
		Description: "Cuci kilat",
		IsOpen:      true,
	}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("Failed to create test shop: %v", err)
	}
	return shop
}

func createTestService(t *testing.T, db *gorm.DB, shopID string, price float64) models.Service {
	t.Helper()

	service := models.Service{
		ID:            uuid.NewString(),
		ShopID:        shopID,
		Name:          "Cuci Setrika",
		Price:         decimal.NewFromFloat(price),
		Unit:          "kg",
		DurationHours: 24,
		IsActive:      true,
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}
	return service
}

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func seedDailyStat(t *testing.T, db *gorm.DB, shopID, day string, total, completed int64, revenue float64) models.ShopDailyStat {
	t.Helper()

	stat := models.ShopDailyStat{
		ID:          uuid.NewString(),
		ShopID:      shopID,
		Day:         day,
		OrdersTotal: total,
		Completed:   completed,
		Revenue:     decimal.NewFromFloat(revenue),
	}
	if err := db.Create(&stat).Error; err != nil {
		t.Fatalf("Failed to create test daily stat: %v", err)
	}
	return stat
}

func createTestOrder(t *testing.T, db *gorm.DB, customerID, shopID string, status models.Status, weight, total float64) models.Order {
	t.Helper()

	order := models.Order{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		ShopID:        shopID,
		ServiceName:   "Cuci Setrika",
		Status:        status,
		PaymentStatus: models.PaymentUnpaid,
		Weight:        decimal.NewFromFloat(weight),
		TotalPrice:    decimal.NewFromFloat(total),
		PickupAddress: "Jl. Kenanga No. 2",
		Version:       1,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}
	return order
}
