package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/dto/request"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	"github.com/fithub/fithub-onboarding/internal/middleware"
	"github.com/fithub/fithub-onboarding/internal/security"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// ApplicationController handles the administrator review endpoints
type ApplicationController struct {
	applications    service.TrainerApplicationService
	securityService *security.SecurityService
	authMiddleware  *middleware.AuthMiddleware
}

// NewApplicationController creates a new ApplicationController instance
func NewApplicationController(
	applications service.TrainerApplicationService,
	securityService *security.SecurityService,
	authMiddleware *middleware.AuthMiddleware,
) *ApplicationController {
	return &ApplicationController{
		applications:    applications,
		securityService: securityService,
		authMiddleware:  authMiddleware,
	}
}

// RegisterRoutes registers the admin application routes
func (c *ApplicationController) RegisterRoutes(router *gin.RouterGroup) {
	apps := router.Group("/admin/applications")
	apps.Use(c.authMiddleware.Authenticate(), c.authMiddleware.RequireAdmin())
	{
		apps.GET("", c.List)
		apps.GET("/pending", c.ListPending)
		apps.GET("/counts", c.Counts)
		apps.GET("/rejection-reasons", c.RejectionReasons)
		apps.GET("/:id", c.GetByID)
		apps.POST("/:id/approve", c.Approve)
		apps.POST("/:id/reject", c.Reject)
	}
}

// List retrieves applications with pagination
// @Summary List trainer applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} response.ApiResponse[response.PagedResponse[response.ApplicationResponse]]
// @Failure 400 {object} response.ApiResponse[any]
// @Router /api/v1/admin/applications [get]
func (c *ApplicationController) List(ctx *gin.Context) {
	var query request.ApplicationListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		respondBindError(ctx, err)
		return
	}

	apps, total, err := c.applications.List(ctx.Request.Context(), entity.ApplicationStatus(query.Status), query.Page, query.Size)
	if err != nil {
		respondError(ctx, err)
		return
	}

	paged := response.NewPagedResponse(response.NewApplicationResponses(apps), query.Page, query.Size, total)
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(paged))
}

// ListPending returns every pending application, oldest first
// @Summary List pending trainer applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.ApiResponse[[]response.ApplicationResponse]
// @Router /api/v1/admin/applications/pending [get]
func (c *ApplicationController) ListPending(ctx *gin.Context) {
	apps, err := c.applications.ListPending(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewApplicationResponses(apps)))
}

// Counts returns the number of applications per status
// @Summary Count trainer applications by status
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.ApiResponse[response.ApplicationCountsResponse]
// @Router /api/v1/admin/applications/counts [get]
func (c *ApplicationController) Counts(ctx *gin.Context) {
	counts, err := c.applications.Counts(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewApplicationCountsResponse(counts)))
}

// RejectionReasons returns the preset rejection reasons
// @Summary List preset rejection reasons
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.ApiResponse[response.RejectionReasonsResponse]
// @Router /api/v1/admin/applications/rejection-reasons [get]
func (c *ApplicationController) RejectionReasons(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.RejectionReasonsResponse{
		Reasons: c.applications.RejectionReasons(),
	}))
}

// GetByID retrieves one application
// @Summary Get a trainer application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.ApiResponse[response.ApplicationResponse]
// @Failure 404 {object} response.ApiResponse[any]
// @Router /api/v1/admin/applications/{id} [get]
func (c *ApplicationController) GetByID(ctx *gin.Context) {
	id, ok := applicationID(ctx)
	if !ok {
		return
	}

	app, err := c.applications.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewApplicationResponse(app)))
}

// Approve moves a pending application to approved
// @Summary Approve a trainer application
// @Description The trainer account is created asynchronously once the approval is recorded.
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body request.ApproveApplicationRequest false "Reviewer notes"
// @Success 200 {object} response.ApiResponse[response.ApplicationResponse]
// @Failure 404 {object} response.ApiResponse[any]
// @Failure 409 {object} response.ApiResponse[any]
// @Router /api/v1/admin/applications/{id}/approve [post]
func (c *ApplicationController) Approve(ctx *gin.Context) {
	id, ok := applicationID(ctx)
	if !ok {
		return
	}

	var req request.ApproveApplicationRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			respondBindError(ctx, err)
			return
		}
	}

	app, err := c.applications.Approve(ctx.Request.Context(), id, c.reviewer(ctx), req.Notes)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(response.NewApplicationResponse(app), "Application approved"))
}

// Reject moves a pending application to rejected
// @Summary Reject a trainer application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body request.RejectApplicationRequest true "Rejection reason"
// @Success 200 {object} response.ApiResponse[response.ApplicationResponse]
// @Failure 400 {object} response.ApiResponse[any]
// @Failure 404 {object} response.ApiResponse[any]
// @Failure 409 {object} response.ApiResponse[any]
// @Router /api/v1/admin/applications/{id}/reject [post]
func (c *ApplicationController) Reject(ctx *gin.Context) {
	id, ok := applicationID(ctx)
	if !ok {
		return
	}

	var req request.RejectApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	app, err := c.applications.Reject(ctx.Request.Context(), id, c.reviewer(ctx), req.Reason)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(response.NewApplicationResponse(app), "Application rejected"))
}

func (c *ApplicationController) reviewer(ctx *gin.Context) service.Reviewer {
	return service.Reviewer{
		UserID: c.securityService.GetCurrentUserID(ctx),
		Email:  c.securityService.GetCurrentEmail(ctx),
	}
}

// applicationID parses the :id path parameter, writing a 400 when it is not
// a positive integer
func applicationID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(ctx, apperrors.ErrBadRequest.WithMessage("invalid application id"))
		return 0, false
	}
	return uint(id), true
}
