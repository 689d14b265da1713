package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipegenie/backend/internal/middleware"
	"github.com/recipegenie/backend/internal/service"
)

type PaymentHandler struct {
	payments *service.PaymentService
	auth     *service.AuthService
	logger   *zap.Logger
}

func NewPaymentHandler(payments *service.PaymentService, auth *service.AuthService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, auth: auth, logger: logger}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payment := router.Group("/payment")
	{
		payment.GET("/plans", h.ListPlans)
		payment.POST("/initiate", middleware.AuthMiddleware(h.auth), h.Initiate)
		payment.POST("/confirm", h.Confirm)
	}
}

func (h *PaymentHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": service.Plans})
}

type InitiatePaymentRequest struct {
	PlanID       int    `json:"plan_id" binding:"required"`
	MobileNumber string `json:"mobile_number"`
}

type InitiatePaymentResponse struct {
	URL string `json:"url"`
}

// Initiate starts a checkout and returns the gateway redirect URL.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	url, err := h.payments.Initiate(c.Request.Context(), userID, req.PlanID, req.MobileNumber)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPlan) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("payment initiation failed", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment service is unavailable, please retry"})
		return
	}

	c.JSON(http.StatusOK, InitiatePaymentResponse{URL: url})
}

type ConfirmPaymentRequest struct {
	PurchaseID uuid.UUID `json:"purchase_id" binding:"required"`
	GatewayRef string    `json:"gateway_ref" binding:"required"`
}

// Confirm is the gateway's success callback: it completes the purchase and
// credits the buyer. Replays of an already completed purchase are reported
// as OK without crediting again.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.payments.Confirm(req.PurchaseID, req.GatewayRef)
	if err != nil {
		if errors.Is(err, service.ErrPurchaseCompleted) {
			c.JSON(http.StatusOK, gin.H{"message": "purchase already completed"})
			return
		}
		if errors.Is(err, service.ErrPurchaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("payment confirmation failed", zap.String("purchase_id", req.PurchaseID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm purchase"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "purchase completed"})
}
