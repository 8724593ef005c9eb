package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"avaneesh/ddc-go/pkg/ddc"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// requestIDMiddleware tags every request with a UUID, reusing the
// client's X-Request-ID when present
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func loggingMiddleware(log ddc.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		status := c.Writer.Status()
		format := "HTTP %s %s -> %d (%s) request_id=%s"
		args := []interface{}{c.Request.Method, c.Request.URL.Path, status, time.Since(startTime), getRequestID(c)}
		if status >= http.StatusInternalServerError {
			log.Warn(format, args...)
		} else {
			log.Debug(format, args...)
		}
	}
}

func recoveryMiddleware(log ddc.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("Panic recovered: %v (%s %s)", recovered, c.Request.Method, c.Request.URL.Path)
		errorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
	})
}
