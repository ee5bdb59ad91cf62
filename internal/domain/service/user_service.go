package service

import (
	"context"

	"github.com/fithub/fithub-onboarding/internal/dto/response"
)

// UserService defines account administration operations
type UserService interface {
	// List retrieves accounts with pagination, newest first
	List(ctx context.Context, page, size int) (*response.PagedResponse[response.UserResponse], error)

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id uint) (*response.UserResponse, error)

	// SetActive enables or disables login for an account
	SetActive(ctx context.Context, id uint, active bool) (*response.UserResponse, error)
}
