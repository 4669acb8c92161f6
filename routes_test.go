package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/laundryin-id/laundryin-api/config"
	"github.com/laundryin-id/laundryin-api/models"
)

func setupMainTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	config.SetDB(db)

	cfg := &config.Config{
		DatabaseURL: "test",
		GoEnv:       "test",
		Auth0Domain: "test.auth0.example.com",
	}
	config.SetConfig(cfg)

	return setupRouter(cfg)
}

func TestHealthCheck(t *testing.T) {
	router := setupMainTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))
}

func TestDatabaseStatus(t *testing.T) {
	router := setupMainTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/database/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	router := setupMainTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/shops", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := setupMainTestRouter(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/profiles/me"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodPost, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/shops/me"},
		{http.MethodGet, "/api/v1/shops/me/orders"},
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodPost, "/api/v1/orders/some-id/status"},
		{http.MethodPost, "/api/v1/orders/some-id/weigh-in"},
		{http.MethodPost, "/api/v1/orders/some-id/payment"},
	}

	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req, _ := http.NewRequest(route.method, route.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
