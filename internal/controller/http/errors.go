package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fithub/fithub-onboarding/internal/dto/response"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

const msgValidationFailed = "validation failed"

// respondError writes err with the status, code and details it carries.
// Anything that is not an application error renders as a 500.
func respondError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.JSON(apperrors.GetStatus(err), response.NewErrorFrom(err))
}

// respondBindError reports a malformed request body or query
func respondBindError(ctx *gin.Context, err error) {
	resp := response.NewErrorWithDetails[any](msgValidationFailed, err.Error())
	resp.Code = apperrors.CodeBadRequest
	ctx.JSON(http.StatusBadRequest, resp)
}
