package response

import (
	"github.com/fithub/fithub-onboarding/internal/domain/registration"
)

// Registration outcomes
const (
	RegistrationCreated = "created"
	RegistrationPending = "pending_review"
)

// RegistrationResponse acknowledges a sign-up. Trainers get an application
// instead of an account.
type RegistrationResponse struct {
	Role          string        `json:"role"`
	Outcome       string        `json:"outcome"`
	User          *UserResponse `json:"user,omitempty"`
	ApplicationID uint          `json:"application_id,omitempty"`
}

// FieldVerdictResponse is the live verdict for one form field
type FieldVerdictResponse struct {
	Field   string `json:"field"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewFieldVerdictResponse maps a validator verdict
func NewFieldVerdictResponse(field registration.Field, v registration.Verdict) FieldVerdictResponse {
	return FieldVerdictResponse{
		Field:   string(field),
		Status:  string(v.Status),
		Message: v.Message,
	}
}

// RejectionReasonsResponse lists the preset reasons offered to reviewers
type RejectionReasonsResponse struct {
	Reasons []string `json:"reasons"`
}
