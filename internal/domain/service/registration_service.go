package service

import (
	"context"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/registration"
)

// RegistrationResult is the outcome of an accepted registration. User is
// set for the user role, Application for the trainer role.
type RegistrationResult struct {
	Role        registration.Role
	User        *entity.User
	Application *entity.TrainerApplication
}

// RegistrationService accepts sign-ups
type RegistrationService interface {
	// Register validates and stores a typed registration
	Register(ctx context.Context, reg registration.Registration) (*RegistrationResult, error)

	// RegisterValues validates raw form values, then registers them
	RegisterValues(ctx context.Context, values registration.Values) (*RegistrationResult, error)

	// CheckField returns the live verdict of one field
	CheckField(field registration.Field, value string, values registration.Values) registration.Verdict
}
