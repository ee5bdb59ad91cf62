package repository

import (
	"context"
	"time"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// TrainerApplicationRepository defines the interface for trainer application data operations
type TrainerApplicationRepository interface {
	// Create stores a new pending application
	Create(ctx context.Context, app *entity.TrainerApplication) error

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id uint) (*entity.TrainerApplication, error)

	// GetLatestByEmail retrieves the most recent application for an email
	GetLatestByEmail(ctx context.Context, email string) (*entity.TrainerApplication, error)

	// HasPending reports whether the email already has an application under review
	HasPending(ctx context.Context, email string) (bool, error)

	// List retrieves applications matching the filter
	List(ctx context.Context, filter dao.ApplicationFilter) ([]*entity.TrainerApplication, int64, error)

	// Transition applies a review to a pending application atomically.
	// It returns the stored application and whether this call applied the review.
	Transition(ctx context.Context, id uint, review entity.Review) (*entity.TrainerApplication, bool, error)

	// ListAwaitingActivation returns approved applications not yet dispatched
	ListAwaitingActivation(ctx context.Context, limit int) ([]*entity.TrainerApplication, error)

	// MarkDispatched records that the activation event was published
	MarkDispatched(ctx context.Context, id uint, at time.Time) (bool, error)

	// LinkTrainer records the trainer account created from the application
	LinkTrainer(ctx context.Context, id uint, userID uint) error

	// CountByStatus returns the number of applications per status
	CountByStatus(ctx context.Context) (map[entity.ApplicationStatus]int64, error)
}
