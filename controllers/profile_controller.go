package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/laundryin-id/laundryin-api/config"
	"github.com/laundryin-id/laundryin-api/middleware"
	"github.com/laundryin-id/laundryin-api/models"
	"github.com/laundryin-id/laundryin-api/services"
	"github.com/laundryin-id/laundryin-api/utils"
)

// CreateProfileRequest represents the request body for creating a profile.
// Email and the canonical name come from the identity provider's /userinfo;
// the body carries what the signup form collects.
type CreateProfileRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

// UpdateProfileRequest represents the request body for updating a profile.
// Role is deliberately absent: it is immutable after signup.
type UpdateProfileRequest struct {
	FullName    string `json:"full_name" binding:"omitempty"`
	PhoneNumber string `json:"phone_number" binding:"omitempty"`
}

// CreateProfile handles POST /api/v1/profiles - creates the account profile
// at signup, verifying the email against the identity provider
func CreateProfile(c *gin.Context) {
	authID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user ID from token")
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Access token not found")
		return
	}

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	cfg := config.GetConfig()
	auth0Service := services.NewAuth0Service(cfg)
	userInfo, err := auth0Service.GetUserInfo(accessToken)
	if err != nil {
		log.Printf("Failed to fetch userinfo: %v", err)
		respondError(c, http.StatusInternalServerError, "AUTH0_ERROR", "Failed to fetch user information from identity provider")
		return
	}

	if userInfo.Email == "" {
		respondError(c, http.StatusBadRequest, "MISSING_EMAIL", "Email not provided by identity provider")
		return
	}

	// Role preference order: signed role claim, then the signup form value.
	// Anything other than "partner" registers as a customer.
	role := req.Role
	if claims, claimsErr := middleware.GetClaims(c); claimsErr == nil {
		if customClaims, ok := claims.CustomClaims.(*middleware.CustomClaims); ok && customClaims.Role != "" {
			role = customClaims.Role
		}
	}
	if role != models.RolePartner {
		role = models.RoleCustomer
	}

	profile := models.Profile{
		ID:          uuid.NewString(),
		AuthID:      authID,
		FullName:    req.FullName,
		Email:       userInfo.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        role,
	}

	db := config.GetDB()
	if err := db.Create(&profile).Error; err != nil {
		// Duplicate auth id or email (works with both PostgreSQL and SQLite)
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			respondError(c, http.StatusConflict, "PROFILE_EXISTS", "A profile for this account or email already exists")
			return
		}

		log.Printf("Failed to create profile: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create profile")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    profile,
	})
}

// GetMyProfile handles GET /api/v1/profiles/me - returns the current
// account's profile with a resolved avatar URL
func GetMyProfile(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	attachAvatarURL(profile)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// UpdateMyProfile handles PUT /api/v1/profiles/me - updates name/phone and,
// when the multipart form carries an "avatar" file, replaces the avatar.
// Accepts multipart/form-data with fields full_name, phone_number, avatar.
func UpdateMyProfile(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	updates := make(map[string]interface{})
	if fullName := c.PostForm("full_name"); fullName != "" {
		updates["full_name"] = fullName
	}
	if phone := c.PostForm("phone_number"); phone != "" {
		updates["phone_number"] = phone
	}

	if fileHeader, err := c.FormFile("avatar"); err == nil {
		imageService := services.GetImageService()
		if imageService == nil {
			respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured")
			return
		}
		key, uploadErr := imageService.UploadImage("avatars", fileHeader)
		if uploadErr != nil {
			var fileErr *utils.FileUploadError
			if errors.As(uploadErr, &fileErr) {
				respondError(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
				return
			}
			log.Printf("Failed to upload avatar: %v", uploadErr)
			respondError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to upload avatar")
			return
		}

		if profile.AvatarKey != "" {
			if delErr := imageService.DeleteImage(profile.AvatarKey); delErr != nil {
				log.Printf("Failed to delete old avatar %s: %v", profile.AvatarKey, delErr)
			}
		}
		updates["avatar_key"] = key
	}

	db := config.GetDB()
	if len(updates) > 0 {
		if err := db.Model(profile).Updates(updates).Error; err != nil {
			log.Printf("Failed to update profile: %v", err)
			respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update profile")
			return
		}
	}

	if err := db.First(profile, "id = ?", profile.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch updated profile")
		return
	}

	attachAvatarURL(profile)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// attachAvatarURL resolves the avatar storage key to a URL, best effort
func attachAvatarURL(profile *models.Profile) {
	if profile.AvatarKey == "" {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(profile.AvatarKey)
	if err != nil {
		log.Printf("Failed to resolve avatar URL for %s: %v", profile.ID, err)
		return
	}
	profile.AvatarURL = url
}
