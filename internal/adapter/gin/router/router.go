package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"ldap-seeder/api/swagger"
	"ldap-seeder/internal/adapter/gin/handler"
	"ldap-seeder/internal/adapter/gin/middleware"
	"ldap-seeder/pkg/logger"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "ldap-directory-api"

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	directoryHandler *handler.DirectoryHandler,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(logger.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(rateLimiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": ServiceName,
		})
	})

	// Serve the swagger JSON file
	router.GET(swagger.DocPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", swagger.Doc)
	})

	// Swagger UI
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL(swagger.DocPath),
	)))

	v1 := router.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.GET("", directoryHandler.ListUsers)
			users.GET("/:uid", directoryHandler.GetUser)
			users.GET("/:uid/photo", directoryHandler.GetPhoto)
		}
	}

	return router
}
