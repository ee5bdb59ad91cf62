package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fithub/fithub-onboarding/internal/domain/registration"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/dto/request"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	"github.com/fithub/fithub-onboarding/internal/middleware"
	"github.com/fithub/fithub-onboarding/internal/resilience"
)

// RegistrationController handles the public sign-up endpoints
type RegistrationController struct {
	registrations service.RegistrationService
	applications  service.TrainerApplicationService
	limiter       *resilience.KeyedLimiter
}

// NewRegistrationController creates a new RegistrationController instance.
// limiter may be nil to leave the endpoints unthrottled.
func NewRegistrationController(
	registrations service.RegistrationService,
	applications service.TrainerApplicationService,
	limiter *resilience.KeyedLimiter,
) *RegistrationController {
	return &RegistrationController{
		registrations: registrations,
		applications:  applications,
		limiter:       limiter,
	}
}

// RegisterRoutes registers the registration routes
func (c *RegistrationController) RegisterRoutes(router *gin.RouterGroup) {
	registrations := router.Group("/registrations")
	registrations.Use(middleware.RateLimit(c.limiter))
	{
		registrations.POST("", c.Register)
		registrations.POST("/validate", c.ValidateField)
		registrations.GET("/status", c.Status)
	}
}

// Register accepts a sign-up form
// @Summary Register a user account or apply as a trainer
// @Description Users get an account at once. Trainers get a pending application that an administrator reviews.
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body request.RegistrationRequest true "Registration form"
// @Success 201 {object} response.ApiResponse[response.RegistrationResponse]
// @Success 202 {object} response.ApiResponse[response.RegistrationResponse]
// @Failure 400 {object} response.ApiResponse[any]
// @Failure 409 {object} response.ApiResponse[any]
// @Failure 422 {object} response.ApiResponse[any]
// @Failure 429 {object} response.ApiResponse[any]
// @Router /api/v1/registrations [post]
func (c *RegistrationController) Register(ctx *gin.Context) {
	var req request.RegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	result, err := c.registrations.RegisterValues(ctx.Request.Context(), req.Values())
	if err != nil {
		respondError(ctx, err)
		return
	}

	resp := response.RegistrationResponse{Role: string(result.Role)}
	if result.Application != nil {
		resp.Outcome = response.RegistrationPending
		resp.ApplicationID = result.Application.ID
		ctx.JSON(http.StatusAccepted, response.NewSuccess(resp, "Trainer application submitted for review"))
		return
	}

	user := response.NewUserResponse(result.User)
	resp.Outcome = response.RegistrationCreated
	resp.User = &user
	ctx.JSON(http.StatusCreated, response.NewSuccess(resp, "Account created successfully"))
}

// ValidateField returns the live verdict of one form field
// @Summary Validate a single registration field
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body request.FieldCheckRequest true "Field and value"
// @Success 200 {object} response.ApiResponse[response.FieldVerdictResponse]
// @Failure 400 {object} response.ApiResponse[any]
// @Router /api/v1/registrations/validate [post]
func (c *RegistrationController) ValidateField(ctx *gin.Context) {
	var req request.FieldCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	field := registration.Field(req.Field)
	verdict := c.registrations.CheckField(field, req.Value, req.ContextValues())
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewFieldVerdictResponse(field, verdict)))
}

// Status reports the latest trainer application for an email
// @Summary Get trainer application status
// @Tags Registration
// @Produce json
// @Param email query string true "Applicant email"
// @Success 200 {object} response.ApiResponse[response.ApplicationStatusResponse]
// @Failure 400 {object} response.ApiResponse[any]
// @Failure 404 {object} response.ApiResponse[any]
// @Router /api/v1/registrations/status [get]
func (c *RegistrationController) Status(ctx *gin.Context) {
	var query request.StatusQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		respondBindError(ctx, err)
		return
	}

	app, err := c.applications.StatusByEmail(ctx.Request.Context(), query.Email)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewSuccessWithData(response.NewApplicationStatusResponse(app)))
}
