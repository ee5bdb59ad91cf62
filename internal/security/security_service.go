package security

import (
	"github.com/gin-gonic/gin"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// ContextKeyClaims is the gin context key holding the validated access token claims
const ContextKeyClaims = "current_claims"

// SecurityService reads the authenticated principal from a request
type SecurityService struct {
	jwtProvider *JWTProvider
}

// NewSecurityService creates a new SecurityService instance
func NewSecurityService(jwtProvider *JWTProvider) *SecurityService {
	return &SecurityService{jwtProvider: jwtProvider}
}

// GetCurrentClaims retrieves the current JWT claims from the context
func (s *SecurityService) GetCurrentClaims(c *gin.Context) *UserClaims {
	claims, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	if cl, ok := claims.(*UserClaims); ok {
		return cl
	}
	return nil
}

// SetCurrentClaims sets the current claims in the context
func (s *SecurityService) SetCurrentClaims(c *gin.Context, claims *UserClaims) {
	c.Set(ContextKeyClaims, claims)
}

// GetCurrentUserID returns the authenticated user's ID, or 0
func (s *SecurityService) GetCurrentUserID(c *gin.Context) uint {
	if claims := s.GetCurrentClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// GetCurrentEmail returns the authenticated user's email, or ""
func (s *SecurityService) GetCurrentEmail(c *gin.Context) string {
	if claims := s.GetCurrentClaims(c); claims != nil {
		return claims.Email
	}
	return ""
}

// IsAuthenticated checks if the current request is authenticated
func (s *SecurityService) IsAuthenticated(c *gin.Context) bool {
	return s.GetCurrentClaims(c) != nil
}

// HasRole checks if the current user has one of the given roles
func (s *SecurityService) HasRole(c *gin.Context, roles ...entity.UserRole) bool {
	claims := s.GetCurrentClaims(c)
	if claims == nil {
		return false
	}
	for _, role := range roles {
		if claims.Role == role {
			return true
		}
	}
	return false
}

// IsAdmin checks if the current user is an admin
func (s *SecurityService) IsAdmin(c *gin.Context) bool {
	return s.HasRole(c, entity.RoleAdmin)
}
