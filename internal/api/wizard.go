package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipegenie/backend/internal/middleware"
	"github.com/recipegenie/backend/internal/prompt"
	"github.com/recipegenie/backend/internal/service"
	"github.com/recipegenie/backend/internal/wizard"
)

// WizardHandler drives the application shell: one redis-backed session per
// visitor, mutated through the endpoints below. The submit path runs the
// quota check, the AI call, the debit and the request log in that order.
type WizardHandler struct {
	sessions service.SessionStore
	profiles *service.ProfileService
	recipes  *service.RecipeService
	gemini   service.RecipeGenerator
	auth     *service.AuthService
	builder  *prompt.Builder
	limiter  *middleware.RateLimiter
	logger   *zap.Logger
}

func NewWizardHandler(
	sessions service.SessionStore,
	profiles *service.ProfileService,
	recipes *service.RecipeService,
	gemini service.RecipeGenerator,
	auth *service.AuthService,
	builder *prompt.Builder,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) *WizardHandler {
	return &WizardHandler{
		sessions: sessions,
		profiles: profiles,
		recipes:  recipes,
		gemini:   gemini,
		auth:     auth,
		builder:  builder,
		limiter:  limiter,
		logger:   logger,
	}
}

func (h *WizardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/wizard/steps", h.ListSteps)
	router.GET("/wizard/languages", h.ListLanguages)

	sessions := router.Group("/sessions")
	sessions.Use(middleware.OptionalAuthMiddleware(h.auth))
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.POST("/:id/start", h.Start)
		sessions.POST("/:id/toggle", h.ToggleOption)
		sessions.POST("/:id/select", h.SelectOption)
		sessions.POST("/:id/custom", h.SetCustomInput)
		sessions.POST("/:id/recipe-count", h.SetRecipeCount)
		sessions.POST("/:id/back", h.Back)
		sessions.POST("/:id/reset", h.Reset)
		sessions.POST("/:id/login", h.BindUser)
		sessions.POST("/:id/logout", h.Logout)
		sessions.POST("/:id/view-saved", h.ViewSaved)
	}

	next := router.Group("/sessions")
	next.Use(middleware.OptionalAuthMiddleware(h.auth))
	if h.limiter != nil {
		next.Use(h.limiter.Middleware())
	}
	next.POST("/:id/next", h.Next)
}

// SessionState is the shell state returned from every session endpoint.
type SessionState struct {
	Session     *wizard.Session   `json:"session"`
	CurrentStep wizard.StepConfig `json:"current_step"`
	StepCount   int               `json:"step_count"`
}

func stateOf(session *wizard.Session) SessionState {
	return SessionState{
		Session:     session,
		CurrentStep: session.Machine.Current(),
		StepCount:   wizard.StepCount(),
	}
}

func (h *WizardHandler) ListSteps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"steps": wizard.Steps})
}

func (h *WizardHandler) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": prompt.Languages})
}

func (h *WizardHandler) CreateSession(c *gin.Context) {
	session, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	if userID, ok := c.Get("user_id"); ok {
		session.UserID = userID.(uuid.UUID).String()
		if err := h.sessions.Save(c.Request.Context(), session); err != nil {
			h.logger.Warn("failed to bind user to new session", zap.Error(err))
		}
	}
	c.JSON(http.StatusCreated, stateOf(session))
}

func (h *WizardHandler) GetSession(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateOf(session))
}

// Start moves the shell from the landing screen into the wizard.
func (h *WizardHandler) Start(c *gin.Context) {
	h.mutate(c, func(session *wizard.Session) error {
		session.Screen = wizard.ScreenWizard
		session.Message = ""
		return nil
	})
}

type ToggleRequest struct {
	Step   string `json:"step" binding:"required"`
	Option string `json:"option" binding:"required"`
}

func (h *WizardHandler) ToggleOption(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	step, ok := wizard.StepByID(req.Step)
	if !ok || step.Type != wizard.MultiSelect {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown multi-select step"})
		return
	}

	h.mutate(c, func(session *wizard.Session) error {
		session.Machine.Form.Toggle(req.Step, req.Option)
		return nil
	})
}

func (h *WizardHandler) SelectOption(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	step, ok := wizard.StepByID(req.Step)
	if !ok || step.Type != wizard.SingleSelect {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown single-select step"})
		return
	}

	h.mutate(c, func(session *wizard.Session) error {
		session.Machine.Form.Select(req.Step, req.Option)
		return nil
	})
}

type CustomInputRequest struct {
	Step string `json:"step" binding:"required"`
	Text string `json:"text"`
}

func (h *WizardHandler) SetCustomInput(c *gin.Context) {
	var req CustomInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if _, ok := wizard.StepByID(req.Step); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown step"})
		return
	}

	h.mutate(c, func(session *wizard.Session) error {
		session.Machine.Custom.Set(req.Step, req.Text)
		return nil
	})
}

type RecipeCountRequest struct {
	Count int `json:"count" binding:"required,min=1,max=10"`
}

func (h *WizardHandler) SetRecipeCount(c *gin.Context) {
	var req RecipeCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 10"})
		return
	}

	h.mutate(c, func(session *wizard.Session) error {
		session.Machine.Form.RecipeCount = req.Count
		return nil
	})
}

type NextRequest struct {
	Language string `json:"language"`
}

// Next advances the wizard. On the last step it runs the submit flow:
// unauthenticated visitors are routed to login with intent=generate, over
// quota sets the limit flag, otherwise the AI call runs and the quota is
// debited on success.
func (h *WizardHandler) Next(c *gin.Context) {
	var req NextRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if req.Language == "" {
		req.Language = "en"
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	submit, err := session.Machine.Advance()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "please answer this step before continuing"})
		return
	}

	if !submit {
		h.saveAndRespond(c, session, http.StatusOK)
		return
	}

	userID, authed := c.Get("user_id")
	if !authed {
		session.Screen = wizard.ScreenLogin
		session.Intent = wizard.IntentGenerate
		h.saveAndRespond(c, session, http.StatusOK)
		return
	}

	session.UserID = userID.(uuid.UUID).String()
	h.generate(c, session, userID.(uuid.UUID), req.Language)
}

// generate runs the submit pipeline: quota check, AI call, debit, log.
func (h *WizardHandler) generate(c *gin.Context, session *wizard.Session, userID uuid.UUID, language string) {
	user, err := h.auth.GetUser(userID)
	if err != nil {
		h.logger.Error("failed to load user for generation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile is unavailable, please retry"})
		return
	}

	profile, err := h.profiles.FetchOrCreate(userID, user.Name, user.Email)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profile is unavailable, please retry"})
		return
	}

	form := session.Machine.Form
	cost := service.CreditCost(form.RecipeCount)
	if !h.profiles.Allow(profile, cost) {
		session.Screen = wizard.ScreenWizard
		session.LimitHit = true
		h.saveAndRespond(c, session, http.StatusOK)
		return
	}

	session.Screen = wizard.ScreenGenerating
	session.LimitHit = false
	session.Message = ""
	if err := h.sessions.Save(c.Request.Context(), session); err != nil {
		h.logger.Warn("failed to persist generating state", zap.Error(err))
	}

	promptText := h.builder.Build(form, session.Machine.Custom, language)
	recipes, err := h.gemini.Generate(c.Request.Context(), promptText, form.RecipeCount)
	if err != nil {
		// Errors land back on the wizard, except when stale results are
		// already showing; those stay visible with the message layered on.
		if len(session.Recipes) == 0 {
			session.Screen = wizard.ScreenWizard
		} else {
			session.Screen = wizard.ScreenResults
		}
		session.Message = generationMessage(err)
		h.saveAndRespond(c, session, http.StatusBadGateway)
		return
	}

	if err := h.profiles.Debit(userID, cost); err != nil {
		h.logger.Error("generation succeeded but debit failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	h.recipes.LogRequest(userID, form, session.Machine.Custom, cost)

	session.Screen = wizard.ScreenResults
	session.Intent = wizard.IntentNone
	session.Recipes = recipes
	h.saveAndRespond(c, session, http.StatusOK)
}

func generationMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrServiceBusy):
		return "The chef is busy right now, please try again."
	case errors.Is(err, service.ErrInvalidFormat):
		return "We could not read the chef's answer, please try again."
	default:
		return "Recipe generation failed, please try again."
	}
}

func (h *WizardHandler) Back(c *gin.Context) {
	h.mutate(c, func(session *wizard.Session) error {
		session.Machine.Retreat()
		return nil
	})
}

// Reset is the "start over" action: answers return to defaults and the
// shell shows the first wizard step again.
func (h *WizardHandler) Reset(c *gin.Context) {
	h.mutate(c, func(session *wizard.Session) error {
		session.StartOver()
		return nil
	})
}

// BindUser attaches the authenticated user to the session after a login
// and resumes the recorded intent: generate reruns the submit pipeline,
// resume simply returns to the wizard.
func (h *WizardHandler) BindUser(c *gin.Context) {
	userID, authed := c.Get("user_id")
	if !authed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req NextRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if req.Language == "" {
		req.Language = "en"
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	session.UserID = userID.(uuid.UUID).String()

	if session.Intent == wizard.IntentGenerate {
		session.Intent = wizard.IntentNone
		h.generate(c, session, userID.(uuid.UUID), req.Language)
		return
	}

	session.Intent = wizard.IntentNone
	session.Screen = wizard.ScreenWizard
	h.saveAndRespond(c, session, http.StatusOK)
}

// Logout clears all user-derived session state.
func (h *WizardHandler) Logout(c *gin.Context) {
	h.mutate(c, func(session *wizard.Session) error {
		session.ClearUser()
		return nil
	})
}

// ViewSaved switches the shell to the saved-recipes screen. Anonymous
// visitors are sent to login with intent=resume.
func (h *WizardHandler) ViewSaved(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if _, authed := c.Get("user_id"); !authed {
		session.Screen = wizard.ScreenLogin
		session.Intent = wizard.IntentResume
		h.saveAndRespond(c, session, http.StatusOK)
		return
	}

	session.Screen = wizard.ScreenSavedRecipes
	h.saveAndRespond(c, session, http.StatusOK)
}

func (h *WizardHandler) loadSession(c *gin.Context) (*wizard.Session, bool) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return nil, false
		}
		h.logger.Error("failed to load session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return nil, false
	}
	return session, true
}

func (h *WizardHandler) mutate(c *gin.Context, fn func(*wizard.Session) error) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	if err := fn(session); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	h.saveAndRespond(c, session, http.StatusOK)
}

func (h *WizardHandler) saveAndRespond(c *gin.Context, session *wizard.Session, status int) {
	if err := h.sessions.Save(c.Request.Context(), session); err != nil {
		h.logger.Error("failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}
	if status >= http.StatusBadRequest {
		c.JSON(status, gin.H{"error": session.Message, "state": stateOf(session)})
		return
	}
	c.JSON(status, stateOf(session))
}
