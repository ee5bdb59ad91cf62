package service

import (
	"context"

	"github.com/fithub/fithub-onboarding/internal/dto/request"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Login authenticates a user and returns tokens
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)

	// RefreshToken issues a new token pair from a valid refresh token
	RefreshToken(ctx context.Context, req *request.RefreshTokenRequest) (*response.AuthResponse, error)

	// Me returns the account behind an access token
	Me(ctx context.Context, userID uint) (*response.UserResponse, error)
}
