package logger

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// NewRunContext tags ctx with a fresh run ID.
func NewRunContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, RunIDKey, uuid.New().String())
}

// RequestID is a gin middleware that adds a request ID to the request context.
// An incoming X-Request-ID header is reused when it parses as a UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(c.Request.Context(), RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
