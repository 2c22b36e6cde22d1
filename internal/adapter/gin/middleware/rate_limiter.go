package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ldap-seeder/pkg/logger"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	WindowSeconds     int
	Enabled           bool
}

// MaxRequests returns the number of requests allowed per window, at least 1.
func (c RateLimiterConfig) MaxRequests() int64 {
	n := int64(c.RequestsPerSecond * float64(c.WindowSeconds))
	if n < 1 {
		return 1
	}
	return n
}

// fixedWindow increments the window counter and starts its expiry on the
// first hit.
var fixedWindow = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return count
`)

// RateLimiter limits requests per client IP and route with a fixed window
// counter in Redis.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
}

// NewRateLimiter creates a new rate limiter. A nil client disables it.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
	}
}

// Middleware returns the Gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.client == nil || !rl.config.Enabled {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		clientIP := c.ClientIP()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("ratelimit:%s:%s:%s", c.Request.Method, route, clientIP)
		limit := rl.config.MaxRequests()

		count, err := fixedWindow.Run(ctx, rl.client, []string{key}, rl.config.WindowSeconds).Int64()
		if err != nil {
			// Fail open.
			logger.WithContext(ctx, rl.log).Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if count > limit {
			logger.WithContext(ctx, rl.log).Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("route", route),
				zap.Int64("count", count),
			)
			c.Header("Retry-After", fmt.Sprint(rl.config.WindowSeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate_limited",
				"message": fmt.Sprintf("rate limit exceeded: %d requests in %d seconds",
					limit, rl.config.WindowSeconds),
			})
			return
		}

		c.Next()
	}
}
