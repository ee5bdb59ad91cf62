package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// Recovery turns a handler panic into a 500 response with no detail
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				fields := append(requestFields(c),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				logger.Error("panic recovered", fields...)
				abort(c, apperrors.ErrInternalError)
			}
		}()
		c.Next()
	}
}
