package server

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	ginhandler "ldap-seeder/internal/adapter/gin/handler"
	ginmiddleware "ldap-seeder/internal/adapter/gin/middleware"
	"ldap-seeder/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates a new server instance
func New(
	cfg *config.Config,
	l *zap.Logger,
	handler *ginhandler.DirectoryHandler,
	rateLimiter *ginmiddleware.RateLimiter,
) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(handler, rateLimiter, httpAddress(cfg), cfg.App.CORSAllowedOrigins, l),
	}
}

// Start serves the directory API until Shutdown is called.
func (s *Server) Start() error {
	s.Logger.Info("directory API running", zap.String("address", s.Gin.Addr))

	if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// httpAddress returns the HTTP server address
func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}
