package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/laundryin-id/laundryin-api/config"
	"github.com/laundryin-id/laundryin-api/middleware"
	"github.com/laundryin-id/laundryin-api/models"
)

// respondError writes the standard error envelope
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// currentProfile resolves the authenticated account's profile. On failure it
// writes the error response and returns ok=false.
func currentProfile(c *gin.Context) (*models.Profile, bool) {
	authID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return nil, false
	}

	db := config.GetDB()
	var profile models.Profile
	if err := db.Where("auth_id = ?", authID).First(&profile).Error; err != nil {
		respondError(c, http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found. Please create a profile first.")
		return nil, false
	}

	return &profile, true
}

// currentShop resolves the authenticated partner's shop. Writes the error
// response and returns ok=false for non-partners and partners without a shop.
func currentShop(c *gin.Context) (*models.Profile, *models.Shop, bool) {
	profile, ok := currentProfile(c)
	if !ok {
		return nil, nil, false
	}

	if !profile.IsPartner() {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only shop partners can access this resource")
		return nil, nil, false
	}

	db := config.GetDB()
	var shop models.Shop
	if err := db.Where("owner_id = ?", profile.ID).First(&shop).Error; err != nil {
		respondError(c, http.StatusNotFound, "SHOP_NOT_FOUND", "No shop found for this account. Create your shop first.")
		return nil, nil, false
	}

	return profile, &shop, true
}
