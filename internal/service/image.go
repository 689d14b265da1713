package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipegenie/backend/config"
	"github.com/recipegenie/backend/internal/models"
)

// ErrUnsupportedImage reports an upload with a content type the avatar
// store does not accept.
var ErrUnsupportedImage = errors.New("unsupported image type")

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageService stores profile avatars in S3 and records the resulting URL
// on the user.
type ImageService struct {
	db       *gorm.DB
	s3Config *config.S3Config
	logger   *zap.Logger
}

func NewImageService(db *gorm.DB, s3Config *config.S3Config, logger *zap.Logger) *ImageService {
	return &ImageService{db: db, s3Config: s3Config, logger: logger}
}

// UploadAvatar stores the image and sets the user's photo URL. The object
// key embeds a fresh UUID so uploads never overwrite each other.
func (s *ImageService) UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (string, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", ErrUnsupportedImage
	}

	key := fmt.Sprintf("avatars/%s/%s.%s", userID, uuid.New(), ext)
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	photoURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	if err := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("photo_url", photoURL).Error; err != nil {
		return "", fmt.Errorf("failed to record avatar url: %w", err)
	}

	s.logger.Info("avatar updated", zap.String("user_id", userID.String()))
	return photoURL, nil
}
