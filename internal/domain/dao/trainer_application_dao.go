package dao

import (
	"context"
	"time"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// ApplicationFilter narrows an application listing.
type ApplicationFilter struct {
	// Status limits results to one state; empty means any.
	Status entity.ApplicationStatus
	Page   int
	Size   int
	// Ascending orders by applied_at oldest first.
	Ascending bool
}

// TrainerApplicationDAO defines data access for trainer applications.
// Applications leave the pending state only through TransitionFromPending
// and are never removed.
type TrainerApplicationDAO interface {
	// Create inserts a new application.
	Create(ctx context.Context, app *entity.TrainerApplication) error

	// FindByID retrieves an application by its ID.
	// Returns nil, nil if the application is not found.
	FindByID(ctx context.Context, id uint) (*entity.TrainerApplication, error)

	// FindLatestByEmail retrieves the most recent application for an email.
	// Returns nil, nil if there is none.
	FindLatestByEmail(ctx context.Context, email string) (*entity.TrainerApplication, error)

	// ExistsPendingByEmail reports whether a pending application exists for the email.
	ExistsPendingByEmail(ctx context.Context, email string) (bool, error)

	// List retrieves applications matching the filter, ordered by applied_at.
	List(ctx context.Context, filter ApplicationFilter) ([]*entity.TrainerApplication, int64, error)

	// TransitionFromPending applies the review only if the application is
	// still pending, as one conditional write. It returns the application as
	// stored after the call and whether this call performed the transition.
	// A missing application yields nil, false, nil.
	TransitionFromPending(ctx context.Context, id uint, review entity.Review) (*entity.TrainerApplication, bool, error)

	// FindAwaitingActivation returns approved applications whose activation
	// event has not been dispatched, oldest review first.
	FindAwaitingActivation(ctx context.Context, limit int) ([]*entity.TrainerApplication, error)

	// MarkActivationDispatched stamps the dispatch time if it is still unset.
	// It reports whether this call set it.
	MarkActivationDispatched(ctx context.Context, id uint, at time.Time) (bool, error)

	// SetTrainerUserID links the application to the trainer account created from it.
	SetTrainerUserID(ctx context.Context, id uint, userID uint) error

	// CountByStatus returns the number of applications in each status.
	CountByStatus(ctx context.Context) (map[entity.ApplicationStatus]int64, error)
}
