package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laundryin-id/laundryin-api/config"
	"github.com/laundryin-id/laundryin-api/models"
	"github.com/laundryin-id/laundryin-api/services"
	"github.com/laundryin-id/laundryin-api/utils"
)

// CreateShopRequest represents the request body for creating a shop
type CreateShopRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Description string `json:"description"`
}

// ListShops handles GET /api/v1/shops - public browse of open shops,
// newest first
func ListShops(c *gin.Context) {
	db := config.GetDB()
	var shops []models.Shop
	if err := db.Where("is_open = ?", true).Order("created_at DESC").Find(&shops).Error; err != nil {
		log.Printf("Failed to list shops: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load shops")
		return
	}

	for i := range shops {
		attachShopImageURL(&shops[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    shops,
	})
}

// GetShop handles GET /api/v1/shops/:id - public shop detail with its
// active services ordered by price
func GetShop(c *gin.Context) {
	db := config.GetDB()

	var shop models.Shop
	if err := db.First(&shop, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "SHOP_NOT_FOUND", "Shop not found")
		return
	}
	attachShopImageURL(&shop)

	var shopServices []models.Service
	if err := db.Where("shop_id = ? AND is_active = ?", shop.ID, true).
		Order("price ASC").
		Find(&shopServices).Error; err != nil {
		log.Printf("Failed to load services for shop %s: %v", shop.ID, err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load services")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"shop":     shop,
			"services": shopServices,
		},
	})
}

// CreateShop handles POST /api/v1/shops - a partner sets up their shop.
// One shop per account; a second attempt conflicts.
func CreateShop(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	if !profile.IsPartner() {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only partner accounts can create a shop")
		return
	}

	var req CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	db := config.GetDB()

	var existing models.Shop
	if err := db.Where("owner_id = ?", profile.ID).First(&existing).Error; err == nil {
		respondError(c, http.StatusConflict, "SHOP_EXISTS", "This account already owns a shop")
		return
	}

	shop := models.Shop{
		ID:          uuid.NewString(),
		OwnerID:     profile.ID,
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		IsOpen:      true,
	}

	if err := db.Create(&shop).Error; err != nil {
		log.Printf("Failed to create shop: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create shop")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    shop,
	})
}

// GetMyShop handles GET /api/v1/shops/me - the partner's own shop
func GetMyShop(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	attachShopImageURL(shop)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    shop,
	})
}

// UpdateMyShop handles PUT /api/v1/shops/me - settings form: name, address,
// description, open flag, and an optional shop image upload.
// Accepts multipart/form-data with fields name, address, description,
// is_open ("true"/"false") and image.
func UpdateMyShop(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	updates := make(map[string]interface{})
	if name := c.PostForm("name"); name != "" {
		updates["name"] = name
	}
	if address := c.PostForm("address"); address != "" {
		updates["address"] = address
	}
	if description := c.PostForm("description"); description != "" {
		updates["description"] = description
	}
	if isOpen, exists := c.GetPostForm("is_open"); exists {
		updates["is_open"] = isOpen == "true" || isOpen == "on"
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		imageService := services.GetImageService()
		if imageService == nil {
			respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured")
			return
		}
		key, uploadErr := imageService.UploadImage("shops", fileHeader)
		if uploadErr != nil {
			var fileErr *utils.FileUploadError
			if errors.As(uploadErr, &fileErr) {
				respondError(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
				return
			}
			log.Printf("Failed to upload shop image: %v", uploadErr)
			respondError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to upload shop image")
			return
		}

		if shop.ImageKey != "" {
			if delErr := imageService.DeleteImage(shop.ImageKey); delErr != nil {
				log.Printf("Failed to delete old shop image %s: %v", shop.ImageKey, delErr)
			}
		}
		updates["image_key"] = key
	}

	db := config.GetDB()
	if len(updates) > 0 {
		if err := db.Model(shop).Updates(updates).Error; err != nil {
			log.Printf("Failed to update shop: %v", err)
			respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update shop")
			return
		}
	}

	if err := db.First(shop, "id = ?", shop.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch updated shop")
		return
	}
	attachShopImageURL(shop)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    shop,
	})
}

// GetMyShopSummary handles GET /api/v1/shops/me/summary - the live dashboard
// figures: total orders, active orders, and income from completed orders.
func GetMyShopSummary(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Where("shop_id = ?", shop.ID).Find(&orders).Error; err != nil {
		log.Printf("Failed to load orders for summary: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load orders")
		return
	}

	var active int
	income := decimal.Zero
	for _, order := range orders {
		if order.IsActive() {
			active++
		}
		if order.Status == models.StatusCompleted {
			income = income.Add(order.TotalPrice)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_orders":  len(orders),
			"active_orders": active,
			"income":        income,
		},
	})
}

// GetMyShopDailyStats handles GET /api/v1/shops/me/stats/daily - the rollup
// rows written by the nightly job, newest day first
func GetMyShopDailyStats(c *gin.Context) {
	_, shop, ok := currentShop(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var stats []models.ShopDailyStat
	if err := db.Where("shop_id = ?", shop.ID).Order("day DESC").Find(&stats).Error; err != nil {
		log.Printf("Failed to load daily stats: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// attachShopImageURL resolves the shop image storage key to a URL, best effort
func attachShopImageURL(shop *models.Shop) {
	if shop.ImageKey == "" {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(shop.ImageKey)
	if err != nil {
		log.Printf("Failed to resolve image URL for shop %s: %v", shop.ID, err)
		return
	}
	shop.ImageURL = url
}
