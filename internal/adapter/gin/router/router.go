package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tandem-user-service/internal/adapter/gin/handler"
	"tandem-user-service/internal/adapter/gin/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and
// middleware. rateLimiter may be nil when rate limiting is disabled.
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	if rateLimiter != nil {
		router.Use(rateLimiter.Middleware())
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "tandem-user-service",
		})
	})

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.GetUserByEmail)
			users.PUT("/:emailAddress", userHandler.UpdateUser)
		}
	}

	return router
}
