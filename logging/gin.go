package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key holding the request id assigned by
// GinLogger.
const RequestIDKey = "request_id"

// GinLogger returns gin middleware that assigns each request an id and logs
// one structured entry per request with method, path, status, and latency.
func GinLogger(logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := uuid.New().String()
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		entry := LogEntry{
			Timestamp:   time.Now(),
			Level:       InfoLevel.String(),
			Message:     "HTTP request",
			Component:   logger.component,
			RequestID:   requestID,
			HTTPMethod:  method,
			HTTPPath:    path,
			HTTPStatus:  c.Writer.Status(),
			HTTPLatency: time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			entry.Level = ErrorLevel.String()
			entry.Error = c.Errors.String()
		}

		if InfoLevel >= logger.level {
			logger.write(entry)
		}
	}
}
