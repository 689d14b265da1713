package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipegenie/backend/internal/api"
	"github.com/recipegenie/backend/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth    *api.AuthHandler
	Wizard  *api.WizardHandler
	Profile *api.ProfileHandler
	Saved   *api.SavedRecipeHandler
	Payment *api.PaymentHandler
	Image   *api.ImageHandler
}

// Setup wires all routes under /api/v1.
func Setup(h Handlers, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	h.Auth.RegisterRoutes(v1)
	h.Wizard.RegisterRoutes(v1)
	h.Profile.RegisterRoutes(v1)
	h.Saved.RegisterRoutes(v1)
	h.Payment.RegisterRoutes(v1)
	h.Image.RegisterRoutes(v1)

	return router
}
