package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipegenie/backend/internal/models"
)

// ErrProfileUnavailable masks persistence failures on the profile record.
// Callers degrade by asking the user to retry.
var ErrProfileUnavailable = errors.New("profile is unavailable")

// Daily request ceilings per plan tier.
const (
	FreeDailyLimit = 8
	ProDailyLimit  = 24
)

const dateLayout = "2006-01-02"

// CreditCost returns the quota cost of generating count recipes: one credit
// buys two recipes, rounded up.
func CreditCost(count int) int {
	if count < 1 {
		count = 1
	}
	return (count + 1) / 2
}

// DailyLimit returns the request ceiling for a plan tier.
func DailyLimit(tier string) int {
	if tier == models.TierPro {
		return ProDailyLimit
	}
	return FreeDailyLimit
}

// ProfileService owns the per-user quota record.
type ProfileService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewProfileService(db *gorm.DB, logger *zap.Logger) *ProfileService {
	return &ProfileService{db: db, logger: logger, now: time.Now}
}

// FetchOrCreate returns the user's profile, creating a fresh free-tier
// record when absent. The daily reset is lazy: when the stored date is not
// today, usage is zeroed and the new date persisted before returning.
// Reading again the same day does not reset a second time.
func (s *ProfileService) FetchOrCreate(userID uuid.UUID, displayName, email string) (*models.UserProfile, error) {
	today := s.now().Format(dateLayout)

	var profile models.UserProfile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{
			ID:              uuid.New(),
			UserID:          userID,
			DisplayName:     displayName,
			Email:           email,
			PlanTier:        models.TierFree,
			RequestsUsed:    0,
			LastRequestDate: today,
		}
		if err := s.db.Create(&profile).Error; err != nil {
			s.logger.Error("failed to create profile", zap.String("user_id", userID.String()), zap.Error(err))
			return nil, ErrProfileUnavailable
		}
		return &profile, nil
	}
	if err != nil {
		s.logger.Error("failed to load profile", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, ErrProfileUnavailable
	}

	if profile.LastRequestDate != today {
		profile.RequestsUsed = 0
		profile.LastRequestDate = today
		if err := s.db.Model(&models.UserProfile{}).
			Where("id = ?", profile.ID).
			Updates(map[string]interface{}{
				"requests_used":     0,
				"last_request_date": today,
			}).Error; err != nil {
			s.logger.Error("failed to persist daily reset", zap.String("user_id", userID.String()), zap.Error(err))
			return nil, ErrProfileUnavailable
		}
	}

	return &profile, nil
}

// Allow reports whether a request costing cost fits within today's
// remaining quota.
func (s *ProfileService) Allow(profile *models.UserProfile, cost int) bool {
	return profile.RequestsUsed+cost <= DailyLimit(profile.PlanTier)
}

// Debit records a successful generation against today's quota. The caller
// must have already passed Allow; the check-then-debit pair is not
// transactional.
func (s *ProfileService) Debit(userID uuid.UUID, cost int) error {
	err := s.db.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Update("requests_used", gorm.Expr("requests_used + ?", cost)).Error
	if err != nil {
		s.logger.Error("failed to debit quota", zap.String("user_id", userID.String()), zap.Error(err))
		return ErrProfileUnavailable
	}
	return nil
}

// AddCredits grants purchased credits. Credits never expire and are not
// consumed by the daily gate; they are reported on the profile.
func (s *ProfileService) AddCredits(userID uuid.UUID, credits int) error {
	err := s.db.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Update("purchased_credits", gorm.Expr("purchased_credits + ?", credits)).Error
	if err != nil {
		s.logger.Error("failed to add credits", zap.String("user_id", userID.String()), zap.Error(err))
		return ErrProfileUnavailable
	}
	return nil
}

// Upgrade switches the user's plan tier.
func (s *ProfileService) Upgrade(userID uuid.UUID, tier string) error {
	if tier != models.TierFree && tier != models.TierPro {
		return errors.New("unknown plan tier")
	}
	err := s.db.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Update("plan_tier", tier).Error
	if err != nil {
		s.logger.Error("failed to change plan tier", zap.String("user_id", userID.String()), zap.Error(err))
		return ErrProfileUnavailable
	}
	return nil
}
