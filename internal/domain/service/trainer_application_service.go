package service

import (
	"context"
	"strconv"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/registration"
)

// RejectionReasons are the preset reasons offered to reviewers. Reviewers
// may still enter free text.
var RejectionReasons = []string{
	"Insufficient experience for our platform requirements",
	"Missing or invalid certifications",
	"Incomplete application - missing required information",
	"Does not meet our platform requirements",
}

// Reviewer identifies the administrator acting on an application
type Reviewer struct {
	UserID uint
	Email  string
}

// Identity is the value recorded as reviewed_by
func (r Reviewer) Identity() string {
	if r.Email != "" {
		return r.Email
	}
	if r.UserID != 0 {
		return "user:" + strconv.FormatUint(uint64(r.UserID), 10)
	}
	return ""
}

// ActivationDispatcher hands an approved application to the activation
// pipeline
type ActivationDispatcher interface {
	Dispatch(ctx context.Context, app *entity.TrainerApplication) error
}

// TrainerApplicationService drives the trainer application lifecycle:
// pending, then exactly one of approved or rejected.
type TrainerApplicationService interface {
	// Submit stores a validated trainer registration as a pending application
	Submit(ctx context.Context, reg *registration.TrainerRegistration, passwordHash string) (*entity.TrainerApplication, error)

	// Approve moves a pending application to approved. A second review of
	// the same application fails with ApplicationAlreadyReviewed.
	Approve(ctx context.Context, id uint, reviewer Reviewer, notes string) (*entity.TrainerApplication, error)

	// Reject moves a pending application to rejected. The trimmed reason
	// must not be empty.
	Reject(ctx context.Context, id uint, reviewer Reviewer, reason string) (*entity.TrainerApplication, error)

	// Get retrieves an application by ID
	Get(ctx context.Context, id uint) (*entity.TrainerApplication, error)

	// ListPending returns every pending application, oldest first
	ListPending(ctx context.Context) ([]*entity.TrainerApplication, error)

	// List returns one page of applications, newest first. An empty status
	// matches every application.
	List(ctx context.Context, status entity.ApplicationStatus, page, size int) ([]*entity.TrainerApplication, int64, error)

	// StatusByEmail returns the latest application submitted with an email
	StatusByEmail(ctx context.Context, email string) (*entity.TrainerApplication, error)

	// Counts returns the number of applications per status
	Counts(ctx context.Context) (map[entity.ApplicationStatus]int64, error)

	// RejectionReasons returns the preset rejection reasons
	RejectionReasons() []string
}
