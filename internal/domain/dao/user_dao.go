package dao

import (
	"context"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// UserDAO extends BaseDAO with user-specific data access operations.
type UserDAO interface {
	BaseDAO[entity.User, uint]

	// FindByEmail retrieves a user by their unique email address.
	// Returns nil, nil if the user is not found.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByTrainerApplicationID retrieves the trainer account created from
	// an application. Returns nil, nil if none exists.
	FindByTrainerApplicationID(ctx context.Context, applicationID uint) (*entity.User, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
