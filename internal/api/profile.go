package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipegenie/backend/internal/middleware"
	"github.com/recipegenie/backend/internal/models"
	"github.com/recipegenie/backend/internal/service"
)

type ProfileHandler struct {
	profiles *service.ProfileService
	auth     *service.AuthService
	logger   *zap.Logger
}

func NewProfileHandler(profiles *service.ProfileService, auth *service.AuthService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, auth: auth, logger: logger}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.auth))
	{
		profile.GET("", h.GetProfile)
	}
}

// ProfileResponse reports the profile along with the derived quota numbers
// the client renders: today's limit and how much of it remains.
type ProfileResponse struct {
	Profile    *models.UserProfile `json:"profile"`
	User       *models.User        `json:"user"`
	DailyLimit int                 `json:"daily_limit"`
	Remaining  int                 `json:"remaining"`
}

// GetProfile returns the caller's profile, creating it on first access.
// The read applies the lazy daily reset.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	user, err := h.auth.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrNoAccount) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			return
		}
		h.logger.Error("failed to load user", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile is unavailable, please retry"})
		return
	}

	profile, err := h.profiles.FetchOrCreate(userID, user.Name, user.Email)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profile is unavailable, please retry"})
		return
	}

	limit := service.DailyLimit(profile.PlanTier)
	remaining := limit - profile.RequestsUsed
	if remaining < 0 {
		remaining = 0
	}

	c.JSON(http.StatusOK, ProfileResponse{
		Profile:    profile,
		User:       user,
		DailyLimit: limit,
		Remaining:  remaining,
	})
}
