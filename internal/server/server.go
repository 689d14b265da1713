package server

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/recipegenie/backend/config"
	"github.com/recipegenie/backend/internal/api"
	"github.com/recipegenie/backend/internal/database"
	"github.com/recipegenie/backend/internal/middleware"
	"github.com/recipegenie/backend/internal/prompt"
	"github.com/recipegenie/backend/internal/router"
	"github.com/recipegenie/backend/internal/service"
)

// Server owns the HTTP listener and the wired service graph.
type Server struct {
	http   *http.Server
	logger *zap.Logger
}

// New builds the full application: database, redis, services, handlers.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := database.ConnectRedis(cfg)
	if err != nil {
		return nil, err
	}

	builder, err := prompt.NewBuilder(cfg.PromptTemplate)
	if err != nil {
		return nil, err
	}

	gemini, err := service.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiAPIURL, logger)
	if err != nil {
		return nil, err
	}

	s3cfg, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	authSvc := service.NewAuthService(db, cfg.JWTSecret, logger)
	profileSvc := service.NewProfileService(db, logger)
	recipeSvc := service.NewRecipeService(db, redisClient, logger)
	sessionSvc := service.NewSessionService(redisClient)
	paymentSvc := service.NewPaymentService(db, profileSvc, cfg.PaymentInitiateURL, cfg.PaymentAPIKey, logger)
	imageSvc := service.NewImageService(db, s3cfg, logger)

	limiter := middleware.NewGenerationRateLimiter(redisClient)

	handlers := router.Handlers{
		Auth:    api.NewAuthHandler(authSvc, logger),
		Wizard:  api.NewWizardHandler(sessionSvc, profileSvc, recipeSvc, gemini, authSvc, builder, limiter, logger),
		Profile: api.NewProfileHandler(profileSvc, authSvc, logger),
		Saved:   api.NewSavedRecipeHandler(recipeSvc, authSvc, logger),
		Payment: api.NewPaymentHandler(paymentSvc, authSvc, logger),
		Image:   api.NewImageHandler(imageSvc, authSvc, logger),
	}

	engine := router.Setup(handlers, cfg.AllowedOrigins)

	return &Server{
		http: &http.Server{
			Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler: engine,
		},
		logger: logger,
	}, nil
}

// Start blocks serving HTTP until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
