package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipegenie/backend/internal/models"
)

var (
	ErrUnknownPlan       = errors.New("unknown credit plan")
	ErrPaymentGateway    = errors.New("payment gateway is unavailable")
	ErrPurchaseNotFound  = errors.New("purchase not found")
	ErrPurchaseCompleted = errors.New("purchase already completed")
)

// Plan is a purchasable credit pack. One credit buys two recipes.
type Plan struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Credits   int    `json:"credits"`
	AmountINR int    `json:"amount_inr"`
}

// Plans lists the available credit packs.
var Plans = []Plan{
	{ID: 1, Name: "Starter", Credits: 10, AmountINR: 99},
	{ID: 2, Name: "Value", Credits: 25, AmountINR: 199},
	{ID: 3, Name: "Chef's Special", Credits: 40, AmountINR: 299},
}

// PlanByID resolves a plan id.
func PlanByID(id int) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// PaymentService starts checkouts with the external gateway and credits the
// profile when the gateway confirms.
type PaymentService struct {
	db       *gorm.DB
	profiles *ProfileService
	client   *resty.Client
	apiKey   string
	logger   *zap.Logger
}

func NewPaymentService(db *gorm.DB, profiles *ProfileService, gatewayURL, apiKey string, logger *zap.Logger) *PaymentService {
	client := resty.New().SetBaseURL(gatewayURL)
	return &PaymentService{
		db:       db,
		profiles: profiles,
		client:   client,
		apiKey:   apiKey,
		logger:   logger,
	}
}

type initiateRequest struct {
	Amount         int    `json:"amount"`
	PlanID         int    `json:"planId"`
	UserID         string `json:"userId"`
	Credits        int    `json:"credits"`
	MerchantUserID string `json:"merchantUserId"`
	MobileNumber   string `json:"mobileNumber"`
}

type initiateResponse struct {
	URL string `json:"url"`
}

// Initiate records a pending purchase and asks the gateway for a redirect
// checkout URL.
func (s *PaymentService) Initiate(ctx context.Context, userID uuid.UUID, planID int, mobileNumber string) (string, error) {
	plan, ok := PlanByID(planID)
	if !ok {
		return "", ErrUnknownPlan
	}

	purchase := models.CreditPurchase{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    plan.ID,
		Credits:   plan.Credits,
		AmountINR: plan.AmountINR,
		Status:    models.PurchasePending,
	}
	if err := s.db.Create(&purchase).Error; err != nil {
		return "", fmt.Errorf("failed to record purchase: %w", err)
	}

	var result initiateResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", s.apiKey).
		SetBody(initiateRequest{
			Amount:         plan.AmountINR,
			PlanID:         plan.ID,
			UserID:         userID.String(),
			Credits:        plan.Credits,
			MerchantUserID: purchase.ID.String(),
			MobileNumber:   mobileNumber,
		}).
		SetResult(&result).
		Post("/api/payment/initiate")
	if err != nil {
		s.markFailed(purchase.ID)
		return "", fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	if resp.IsError() || result.URL == "" {
		s.logger.Error("payment gateway rejected initiation",
			zap.Int("status", resp.StatusCode()),
			zap.String("purchase_id", purchase.ID.String()))
		s.markFailed(purchase.ID)
		return "", ErrPaymentGateway
	}

	if err := s.db.Model(&models.CreditPurchase{}).
		Where("id = ?", purchase.ID).
		Update("status", models.PurchaseInitiated).Error; err != nil {
		s.logger.Warn("failed to mark purchase initiated", zap.Error(err))
	}
	return result.URL, nil
}

// Confirm finalizes a purchase after the gateway reports success and grants
// the credits. Idempotent: a completed purchase is not credited twice.
func (s *PaymentService) Confirm(purchaseID uuid.UUID, gatewayRef string) error {
	var purchase models.CreditPurchase
	if err := s.db.Where("id = ?", purchaseID).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseNotFound
		}
		return fmt.Errorf("failed to load purchase: %w", err)
	}
	if purchase.Status == models.PurchaseCompleted {
		return ErrPurchaseCompleted
	}

	if err := s.db.Model(&models.CreditPurchase{}).
		Where("id = ?", purchase.ID).
		Updates(map[string]interface{}{
			"status":      models.PurchaseCompleted,
			"gateway_ref": gatewayRef,
		}).Error; err != nil {
		return fmt.Errorf("failed to complete purchase: %w", err)
	}

	return s.profiles.AddCredits(purchase.UserID, purchase.Credits)
}

func (s *PaymentService) markFailed(purchaseID uuid.UUID) {
	if err := s.db.Model(&models.CreditPurchase{}).
		Where("id = ?", purchaseID).
		Update("status", models.PurchaseFailed).Error; err != nil {
		s.logger.Warn("failed to mark purchase failed", zap.Error(err))
	}
}
