package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/laundryin-id/laundryin-api/config"
	"github.com/laundryin-id/laundryin-api/models"
)

// ListMyNotifications handles GET /api/v1/notifications - the bookkeeping
// rows recorded for the current account, newest first
func ListMyNotifications(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var notifications []models.Notification
	if err := db.Where("recipient_id = ?", profile.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error; err != nil {
		log.Printf("Failed to list notifications: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
	})
}
