package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fithub/fithub-onboarding/internal/dto/response"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// CodeRateLimited is returned with 429 responses
const CodeRateLimited = "RATE_LIMITED"

var errRateLimited = apperrors.New(CodeRateLimited, "Too many requests, please try again later", http.StatusTooManyRequests)

// abort writes err as the response and stops the handler chain
func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperrors.GetStatus(err), response.NewErrorFrom(err))
}
