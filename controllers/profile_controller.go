// controllers/profile_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"

	"backend/models"
	"backend/pkg/logger"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// ProfileStore is what the profile endpoints need from the store layer.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, userID string, req models.CreateProfileRequest) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (models.UserProfile, error)
}

type ProfileController struct {
	profiles ProfileStore
	log      *logger.Logger
}

func NewProfileController(profiles ProfileStore, log *logger.Logger) *ProfileController {
	return &ProfileController{profiles: profiles, log: log}
}

// CreateProfile handles POST /api/profile (onboarding).
func (ctl *ProfileController) CreateProfile(c *gin.Context) {
	var req models.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.GetString("userID")

	profile, err := ctl.profiles.CreateProfile(c.Request.Context(), userID, req)
	if err != nil {
		ctl.log.Errorw("profile creation failed", "userID", userID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create profile"})
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// GetProfile handles GET /api/profile.
func (ctl *ProfileController) GetProfile(c *gin.Context) {
	userID := c.GetString("userID")

	profile, err := ctl.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		ctl.log.Errorw("profile fetch failed", "userID", userID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile with a partial patch.
func (ctl *ProfileController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.GetString("userID")

	profile, err := ctl.profiles.UpdateProfile(c.Request.Context(), userID, req)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		ctl.log.Errorw("profile update failed", "userID", userID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
