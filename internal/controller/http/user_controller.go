package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/dto/request"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	"github.com/fithub/fithub-onboarding/internal/middleware"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// UserController handles account administration endpoints
type UserController struct {
	userService    service.UserService
	authMiddleware *middleware.AuthMiddleware
}

// NewUserController creates a new UserController instance
func NewUserController(
	userService service.UserService,
	authMiddleware *middleware.AuthMiddleware,
) *UserController {
	return &UserController{
		userService:    userService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the user routes
func (c *UserController) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/admin/users")
	users.Use(c.authMiddleware.Authenticate(), c.authMiddleware.RequireAdmin())
	{
		users.GET("", c.List)
		users.GET("/:id", c.GetByID)
		users.PUT("/:id/active", c.SetActive)
	}
}

// List retrieves all accounts with pagination
// @Summary List accounts
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} response.ApiResponse[response.PagedResponse[response.UserResponse]]
// @Router /api/v1/admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "20"))

	users, err := c.userService.List(ctx.Request.Context(), page, size)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(users))
}

// GetByID retrieves an account by ID
// @Summary Get account by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.ApiResponse[response.UserResponse]
// @Failure 404 {object} response.ApiResponse[any]
// @Router /api/v1/admin/users/{id} [get]
func (c *UserController) GetByID(ctx *gin.Context) {
	id, ok := userID(ctx)
	if !ok {
		return
	}

	user, err := c.userService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccessWithData(user))
}

// SetActive enables or disables login for an account
// @Summary Enable or disable an account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body request.SetActiveRequest true "Desired state"
// @Success 200 {object} response.ApiResponse[response.UserResponse]
// @Failure 404 {object} response.ApiResponse[any]
// @Router /api/v1/admin/users/{id}/active [put]
func (c *UserController) SetActive(ctx *gin.Context) {
	id, ok := userID(ctx)
	if !ok {
		return
	}

	var req request.SetActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	user, err := c.userService.SetActive(ctx.Request.Context(), id, *req.Active)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(user, "Account updated"))
}

func userID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(ctx, apperrors.ErrBadRequest.WithMessage("invalid user id"))
		return 0, false
	}
	return uint(id), true
}
