package server

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	ginhandler "ldap-seeder/internal/adapter/gin/handler"
	ginmiddleware "ldap-seeder/internal/adapter/gin/middleware"
	ginrouter "ldap-seeder/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server.
// WriteTimeout must cover a full ldapsearch plus encoding every photo.
func SetupGinServer(
	handler *ginhandler.DirectoryHandler,
	rateLimiter *ginmiddleware.RateLimiter,
	addr string,
	allowedOrigins []string,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(handler, rateLimiter, l)

	// CORS sits in front of gin so preflight requests never reach the router.
	withCORS := cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         300,
	})

	l.Info("Gin REST API configured",
		zap.String("address", addr),
		zap.Strings("cors_origins", allowedOrigins),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           withCORS(router),
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
