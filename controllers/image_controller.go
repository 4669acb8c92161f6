package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/laundryin-id/laundryin-api/services"
)

// GetImage handles GET /api/v1/images/*key - redirects an image storage key
// to a short-lived presigned URL
func GetImage(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Image key is required")
		return
	}

	// Prevent traversal-style keys; bucket keys are always prefix/name
	if strings.Contains(key, "..") {
		respondError(c, http.StatusBadRequest, "INVALID_KEY", "Invalid image key")
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured")
		return
	}

	url, err := imageService.GetImageURL(key)
	if err != nil {
		log.Printf("Failed to resolve image %s: %v", key, err)
		respondError(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not found")
		return
	}
	if url == "" {
		respondError(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not found")
		return
	}

	c.Redirect(http.StatusFound, url)
}
