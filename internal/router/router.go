package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutridiet/backend/internal/api"
	"github.com/nutridiet/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	chatHandler *api.ChatHandler,
	dietPlanHandler *api.DietPlanHandler,
	passwordHandler *api.PasswordHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	// The client contract promises 405 for wrong-method access, not 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Only POST requests are allowed."})
	})

	router.GET("/health", api.HealthCheck)

	v1 := router.Group("/api/v1")
	chatHandler.RegisterRoutes(v1)
	dietPlanHandler.RegisterRoutes(v1)
	passwordHandler.RegisterRoutes(v1)

	return router
}
