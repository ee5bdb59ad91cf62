package response

import (
	"time"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// ApplicationResponse is the administrator view of a trainer application
type ApplicationResponse struct {
	ID                     uint       `json:"id"`
	Email                  string     `json:"email"`
	FirstName              string     `json:"first_name"`
	LastName               string     `json:"last_name"`
	Phone                  string     `json:"phone"`
	DateOfBirth            string     `json:"date_of_birth"`
	Gender                 string     `json:"gender"`
	Experience             string     `json:"experience"`
	Certifications         string     `json:"certifications"`
	Specializations        string     `json:"specializations"`
	Bio                    string     `json:"bio"`
	Motivation             string     `json:"motivation"`
	Status                 string     `json:"status"`
	AppliedAt              time.Time  `json:"applied_at"`
	ReviewedBy             string     `json:"reviewed_by,omitempty"`
	ReviewedAt             *time.Time `json:"reviewed_at,omitempty"`
	AdminNotes             string     `json:"admin_notes,omitempty"`
	RejectionReason        string     `json:"rejection_reason,omitempty"`
	ActivationDispatchedAt *time.Time `json:"activation_dispatched_at,omitempty"`
	TrainerUserID          *uint      `json:"trainer_user_id,omitempty"`
}

// NewApplicationResponse maps an application. The password hash never leaves
// the service.
func NewApplicationResponse(a *entity.TrainerApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:                     a.ID,
		Email:                  a.Email,
		FirstName:              a.FirstName,
		LastName:               a.LastName,
		Phone:                  a.Phone,
		DateOfBirth:            a.DateOfBirth,
		Gender:                 a.Gender,
		Experience:             a.Experience,
		Certifications:         a.Certifications,
		Specializations:        a.Specializations,
		Bio:                    a.Bio,
		Motivation:             a.Motivation,
		Status:                 string(a.Status),
		AppliedAt:              a.AppliedAt,
		ReviewedBy:             a.ReviewedBy,
		ReviewedAt:             a.ReviewedAt,
		AdminNotes:             a.AdminNotes,
		RejectionReason:        a.RejectionReason,
		ActivationDispatchedAt: a.ActivationDispatchedAt,
		TrainerUserID:          a.TrainerUserID,
	}
}

// NewApplicationResponses maps a list of applications
func NewApplicationResponses(apps []*entity.TrainerApplication) []ApplicationResponse {
	out := make([]ApplicationResponse, len(apps))
	for i, a := range apps {
		out[i] = NewApplicationResponse(a)
	}
	return out
}

// ApplicationStatusResponse is what an applicant sees about their own
// application
type ApplicationStatusResponse struct {
	ApplicationID   uint       `json:"application_id"`
	Status          string     `json:"status"`
	AppliedAt       time.Time  `json:"applied_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

// NewApplicationStatusResponse maps the applicant-facing view
func NewApplicationStatusResponse(a *entity.TrainerApplication) ApplicationStatusResponse {
	return ApplicationStatusResponse{
		ApplicationID:   a.ID,
		Status:          string(a.Status),
		AppliedAt:       a.AppliedAt,
		ReviewedAt:      a.ReviewedAt,
		RejectionReason: a.RejectionReason,
	}
}

// ApplicationCountsResponse holds the number of applications per status
type ApplicationCountsResponse struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// NewApplicationCountsResponse maps per-status counts
func NewApplicationCountsResponse(counts map[entity.ApplicationStatus]int64) ApplicationCountsResponse {
	return ApplicationCountsResponse{
		Pending:  counts[entity.ApplicationPending],
		Approved: counts[entity.ApplicationApproved],
		Rejected: counts[entity.ApplicationRejected],
	}
}
