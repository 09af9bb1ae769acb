package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logging emits a structured log per request.
func Logging(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("request_id", RequestIDFromContext(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Float64("duration_ms", float64(latency.Microseconds())/1000.0),
			zap.String("client_ip", c.ClientIP()),
		}
		if auditID := c.GetString("auditId"); auditID != "" {
			fields = append(fields, zap.String("audit_id", auditID))
		}
		if transition := c.GetString("statusTransition"); transition != "" {
			fields = append(fields, zap.String("status_transition", transition))
		}
		if code := c.GetString("errorCode"); code != "" {
			fields = append(fields, zap.String("error_code", code))
		}

		log.Info("request.complete", fields...)
	}
}
