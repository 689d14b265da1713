package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipegenie/backend/internal/models"
	"github.com/recipegenie/backend/internal/types"
	"github.com/recipegenie/backend/internal/wizard"
)

const savedCacheTTL = 15 * time.Minute

func savedCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("saved_recipes:%s", userID)
}

// RecipeService owns saved-recipe bookmarks and the generation request log.
// The redis client is optional; without it every List hits the database.
type RecipeService struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

func NewRecipeService(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *RecipeService {
	return &RecipeService{db: db, redis: redisClient, logger: logger}
}

// ToggleSave bookmarks a recipe, or removes the bookmark when a recipe with
// the same title is already saved. Returns true when the recipe ended up
// saved, false when it was removed.
func (s *RecipeService) ToggleSave(ctx context.Context, userID uuid.UUID, recipe types.Recipe) (bool, error) {
	var existing models.SavedRecipe
	err := s.db.Where("user_id = ? AND title = ?", userID, recipe.Title).First(&existing).Error

	if err == nil {
		if err := s.db.Delete(&existing).Error; err != nil {
			return true, fmt.Errorf("failed to remove saved recipe: %w", err)
		}
		s.invalidateCache(ctx, userID)
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up saved recipe: %w", err)
	}

	ingredients := make(models.StringArray, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ingredients = append(ingredients, ing.String())
	}

	saved := models.SavedRecipe{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       recipe.Title,
		Suitability: recipe.Suitability,
		MatchReason: recipe.MatchReason,
		Ingredients: ingredients,
		Method:      models.StringArray(recipe.Method),
		Time:        recipe.Time,
		Difficulty:  recipe.Difficulty,
		Variations:  recipe.Variations,
		Calories:    recipe.Nutrition.Calories,
		Protein:     recipe.Nutrition.Protein,
		Carbs:       recipe.Nutrition.Carbs,
		Fats:        recipe.Nutrition.Fats,
		Vitamins:    recipe.Nutrition.Vitamins,
		SavedAt:     time.Now(),
	}
	if err := s.db.Create(&saved).Error; err != nil {
		return false, fmt.Errorf("failed to save recipe: %w", err)
	}
	s.invalidateCache(ctx, userID)
	return true, nil
}

// List returns the user's bookmarks, newest first, through a redis cache.
// Cache failures are logged and fall through to the database.
func (s *RecipeService) List(ctx context.Context, userID uuid.UUID) ([]models.SavedRecipe, error) {
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, savedCacheKey(userID)).Bytes(); err == nil {
			var cached []models.SavedRecipe
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var recipes []models.SavedRecipe
	if err := s.db.Where("user_id = ?", userID).Order("saved_at DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}

	if s.redis != nil {
		if data, err := json.Marshal(recipes); err == nil {
			if err := s.redis.Set(ctx, savedCacheKey(userID), data, savedCacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache saved recipes", zap.Error(err))
			}
		}
	}
	return recipes, nil
}

// IsSaved reports whether a title is bookmarked.
func (s *RecipeService) IsSaved(userID uuid.UUID, title string) (bool, error) {
	var count int64
	err := s.db.Model(&models.SavedRecipe{}).
		Where("user_id = ? AND title = ?", userID, title).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check saved recipe: %w", err)
	}
	return count > 0, nil
}

func (s *RecipeService) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, savedCacheKey(userID)).Err(); err != nil {
		s.logger.Warn("failed to invalidate saved-recipe cache", zap.Error(err))
	}
}

// LogRequest appends one entry to the analytics log of generation requests.
// Best effort: failures are logged, never surfaced.
func (s *RecipeService) LogRequest(userID uuid.UUID, form wizard.FormData, custom wizard.CustomInputs, cost int) {
	entry := models.RecipeRequest{
		ID:     uuid.New(),
		UserID: userID,
		Request: models.JSONMap{
			"form":   form,
			"custom": custom,
		},
		CreditCost: cost,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.Warn("failed to log recipe request", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
