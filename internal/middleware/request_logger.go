package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magicdayconcierge/booking-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every HTTP request with latency, status and parsed
// device info from the User-Agent header.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		device := utils.ParseUserAgent(c.Request.UserAgent())

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"device":     device.DeviceType,
			"os":         device.OS,
			"browser":    device.Browser,
		}
		if device.IsBot {
			fields["bot"] = true
		}

		if adminCtx, exists := GetAdminContext(c); exists {
			fields["admin"] = adminCtx.Email
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed")
		}
	}
}
