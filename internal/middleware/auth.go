package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/security"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// AuthMiddleware provides authentication middleware
type AuthMiddleware struct {
	jwtProvider     *security.JWTProvider
	securityService *security.SecurityService
}

// NewAuthMiddleware creates a new AuthMiddleware instance
func NewAuthMiddleware(jwtProvider *security.JWTProvider, securityService *security.SecurityService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtProvider:     jwtProvider,
		securityService: securityService,
	}
}

// Authenticate validates the bearer token and sets the claims in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="fithub"`)
			abort(c, apperrors.ErrUnauthorized.WithMessage("authorization header required"))
			return
		}

		claims, err := m.jwtProvider.ValidateAccessToken(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, security.ErrExpiredToken) {
				msg = "token has expired"
			}
			c.Header("WWW-Authenticate", `Bearer realm="fithub", error="invalid_token"`)
			abort(c, apperrors.ErrUnauthorized.WithMessage(msg))
			return
		}

		m.securityService.SetCurrentClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the claims when a valid token is present and otherwise
// lets the request through anonymously
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := m.jwtProvider.ValidateAccessToken(token); err == nil {
				m.securityService.SetCurrentClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole checks if the user has one of the roles
func (m *AuthMiddleware) RequireRole(roles ...entity.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := m.securityService.GetCurrentClaims(c)
		if claims == nil {
			abort(c, apperrors.ErrUnauthorized.WithMessage("authentication required"))
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		abort(c, apperrors.ErrForbidden.WithMessage("insufficient permissions"))
	}
}

// RequireAdmin checks if the user is an admin
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(entity.RoleAdmin)
}

func bearerToken(c *gin.Context) (string, bool) {
	return security.BearerToken(c.GetHeader("Authorization"))
}
