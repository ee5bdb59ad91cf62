package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/security"
)

// probePaths are polled by orchestrators and logged at debug level only
var probePaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// Logger returns a request logging middleware
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := append(requestFields(c),
			zap.Int("status", status),
			zap.String("route", c.FullPath()),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Duration("latency", time.Since(start)),
		)
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("server error", fields...)
		case status >= 400:
			logger.Warn("client error", fields...)
		case probePaths[path]:
			logger.Debug("probe", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// requestFields identifies the request and, once authenticated, the caller
func requestFields(c *gin.Context) []zap.Field {
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", GetRequestID(c)),
	}
	if v, ok := c.Get(security.ContextKeyClaims); ok {
		if claims, ok := v.(*security.UserClaims); ok {
			fields = append(fields, zap.Uint("user_id", claims.UserID), zap.String("role", string(claims.Role)))
		}
	}
	return fields
}
