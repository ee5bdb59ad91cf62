package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/dto/request"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	"github.com/fithub/fithub-onboarding/internal/middleware"
	"github.com/fithub/fithub-onboarding/internal/security"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// AuthController handles authentication endpoints
type AuthController struct {
	authService     service.AuthService
	securityService *security.SecurityService
	authMiddleware  *middleware.AuthMiddleware
}

// NewAuthController creates a new AuthController instance
func NewAuthController(
	authService service.AuthService,
	securityService *security.SecurityService,
	authMiddleware *middleware.AuthMiddleware,
) *AuthController {
	return &AuthController{
		authService:     authService,
		securityService: securityService,
		authMiddleware:  authMiddleware,
	}
}

// RegisterRoutes registers the auth routes
func (c *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", c.Login)
		auth.POST("/refresh", c.RefreshToken)
		auth.GET("/me", c.authMiddleware.Authenticate(), c.Me)
	}
}

// Login handles account login
// @Summary Login with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login request"
// @Success 200 {object} response.ApiResponse[response.AuthResponse]
// @Failure 400 {object} response.ApiResponse[any]
// @Failure 401 {object} response.ApiResponse[any]
// @Failure 403 {object} response.ApiResponse[any]
// @Router /api/v1/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	authResp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewSuccess(authResp, "Login successful"))
}

// RefreshToken handles token refresh
// @Summary Refresh access token using refresh token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body request.RefreshTokenRequest true "Refresh token request"
// @Success 200 {object} response.ApiResponse[response.AuthResponse]
// @Failure 400 {object} response.ApiResponse[any]
// @Failure 401 {object} response.ApiResponse[any]
// @Router /api/v1/auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req request.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	authResp, err := c.authService.RefreshToken(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewSuccess(authResp, "Token refreshed successfully"))
}

// Me returns the authenticated account
// @Summary Get the current account
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.ApiResponse[response.UserResponse]
// @Failure 401 {object} response.ApiResponse[any]
// @Router /api/v1/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID := c.securityService.GetCurrentUserID(ctx)
	if userID == 0 {
		respondError(ctx, apperrors.ErrUnauthorized.WithMessage("not authenticated"))
		return
	}

	user, err := c.authService.Me(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewSuccessWithData(user))
}
