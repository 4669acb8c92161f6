package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laundryin-id/laundryin-api/config"
	"github.com/laundryin-id/laundryin-api/models"
)

// CreateServiceRequest represents the request body for adding a service
type CreateServiceRequest struct {
	Name          string  `json:"name" binding:"required"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Unit          string  `json:"unit" binding:"required"`
	DurationHours int     `json:"duration_hours" binding:"required,gt=0"`
}

// CreateService handles POST /api/v1/shops/me/services - adds a priced
// offering to the partner's shop
func CreateService(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	service := models.Service{
		ID:            uuid.NewString(),
		ShopID:        shop.ID,
		Name:          req.Name,
		Price:         decimal.NewFromFloat(req.Price),
		Unit:          req.Unit,
		DurationHours: req.DurationHours,
		IsActive:      true,
	}

	db := config.GetDB()
	if err := db.Create(&service).Error; err != nil {
		log.Printf("Failed to create service: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    service,
	})
}

// ListMyServices handles GET /api/v1/shops/me/services - all of the
// partner's services, including inactive ones
func ListMyServices(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var shopServices []models.Service
	if err := db.Where("shop_id = ?", shop.ID).Order("price ASC").Find(&shopServices).Error; err != nil {
		log.Printf("Failed to list services: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load services")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    shopServices,
	})
}

// DeleteService handles DELETE /api/v1/shops/me/services/:serviceID.
// Existing orders keep their snapshotted name and price.
func DeleteService(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.Where("id = ? AND shop_id = ?", c.Param("serviceID"), shop.ID).First(&service).Error; err != nil {
		respondError(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service not found for your shop")
		return
	}

	if err := db.Delete(&service).Error; err != nil {
		log.Printf("Failed to delete service: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete service")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": service.ID},
	})
}
