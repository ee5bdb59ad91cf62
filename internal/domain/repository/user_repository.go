package repository

import (
	"context"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uint) (*entity.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByTrainerApplicationID retrieves the trainer created from an application
	GetByTrainerApplicationID(ctx context.Context, applicationID uint) (*entity.User, error)

	// ExistsByEmail checks if an email is registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Update updates an existing user
	Update(ctx context.Context, user *entity.User) error

	// List retrieves users with pagination
	List(ctx context.Context, page, size int) ([]*entity.User, int64, error)
}
