package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipegenie/backend/internal/middleware"
	"github.com/recipegenie/backend/internal/service"
	"github.com/recipegenie/backend/internal/types"
)

type SavedRecipeHandler struct {
	recipes *service.RecipeService
	auth    *service.AuthService
	logger  *zap.Logger
}

func NewSavedRecipeHandler(recipes *service.RecipeService, auth *service.AuthService, logger *zap.Logger) *SavedRecipeHandler {
	return &SavedRecipeHandler{recipes: recipes, auth: auth, logger: logger}
}

func (h *SavedRecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	saved := router.Group("/saved-recipes")
	saved.Use(middleware.AuthMiddleware(h.auth))
	{
		saved.GET("", h.List)
		saved.POST("/toggle", h.Toggle)
	}
}

type ToggleSaveRequest struct {
	Recipe types.Recipe `json:"recipe" binding:"required"`
}

type ToggleSaveResponse struct {
	Saved bool   `json:"saved"`
	Title string `json:"title"`
}

// Toggle bookmarks a recipe, or removes an existing bookmark with the same
// title.
func (h *SavedRecipeHandler) Toggle(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req ToggleSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Recipe.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a recipe with a title is required"})
		return
	}

	saved, err := h.recipes.ToggleSave(c.Request.Context(), userID, req.Recipe)
	if err != nil {
		h.logger.Error("bookmark toggle failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update bookmark"})
		return
	}

	c.JSON(http.StatusOK, ToggleSaveResponse{Saved: saved, Title: req.Recipe.Title})
}

func (h *SavedRecipeHandler) List(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	recipes, err := h.recipes.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list saved recipes", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load saved recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
