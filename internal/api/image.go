package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipegenie/backend/internal/middleware"
	"github.com/recipegenie/backend/internal/service"
)

const maxAvatarBytes = 5 << 20

type ImageHandler struct {
	images *service.ImageService
	auth   *service.AuthService
	logger *zap.Logger
}

func NewImageHandler(images *service.ImageService, auth *service.AuthService, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{images: images, auth: auth, logger: logger}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.auth))
	{
		profile.POST("/avatar", h.UploadAvatar)
	}
}

// UploadAvatar accepts a multipart "avatar" file, stores it and returns the
// new photo URL.
func (h *ImageHandler) UploadAvatar(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "avatar must be under 5MB"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	photoURL, err := h.images.UploadAvatar(c.Request.Context(), userID, data, contentType)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImage) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("avatar upload failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": photoURL})
}
