// internal/interfaces/http/middleware/logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger returns a gin.HandlerFunc that logs HTTP requests through logger
func Logger(logger *logrus.Logger) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health", "/ready"},
		Formatter: func(param gin.LogFormatterParams) string {
			entry := logger.WithFields(logrus.Fields{
				"request_id":    param.Keys[ctxRequestID],
				"timestamp":     param.TimeStamp.Format(time.RFC3339),
				"method":        param.Method,
				"path":          param.Path,
				"status_code":   param.StatusCode,
				"latency":       param.Latency.String(),
				"client_ip":     param.ClientIP,
				"user_agent":    param.Request.UserAgent(),
				"response_size": param.BodySize,
			})
			if email, ok := param.Keys[ctxEmail]; ok {
				entry = entry.WithField("email", email)
			}

			if param.ErrorMessage != "" {
				entry = entry.WithField("error", param.ErrorMessage)
			}

			switch {
			case param.StatusCode >= 500:
				entry.Error("HTTP request completed with server error")
			case param.StatusCode >= 400:
				entry.Warn("HTTP request completed with client error")
			default:
				entry.Info("HTTP request completed successfully")
			}

			return ""
		},
	})
}
