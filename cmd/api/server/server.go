package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "tandem-user-service/internal/adapter/gin/handler"
	"tandem-user-service/internal/adapter/gin/middleware"
	ginrouter "tandem-user-service/internal/adapter/gin/router"
	"tandem-user-service/internal/config"
)

// Server holds the HTTP server serving the user API
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance with the router fully wired.
// rateLimiter may be nil when rate limiting is disabled.
func New(cfg *config.Config, l *zap.Logger, userHandler *ginhandler.UserHandler, rateLimiter *middleware.RateLimiter) *Server {
	router := ginrouter.SetupRouter(userHandler, rateLimiter, l)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              ":" + cfg.App.HTTPPort,
			Handler:           router,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))
	return s.HTTP.ListenAndServe()
}
