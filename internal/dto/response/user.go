package response

import (
	"time"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// UserResponse represents an account in responses
type UserResponse struct {
	ID                   uint       `json:"id"`
	Email                string     `json:"email"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Phone                string     `json:"phone,omitempty"`
	Role                 string     `json:"role"`
	IsActive             bool       `json:"is_active"`
	SubscribeNewsletter  bool       `json:"subscribe_newsletter"`
	TrainerStatus        string     `json:"trainer_status,omitempty"`
	Specializations      string     `json:"specializations,omitempty"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	TrainerApplicationID *uint      `json:"trainer_application_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewUserResponse maps an account
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:                   u.ID,
		Email:                u.Email,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		Phone:                u.Phone,
		Role:                 string(u.Role),
		IsActive:             u.IsActive,
		SubscribeNewsletter:  u.SubscribeNewsletter,
		TrainerStatus:        u.TrainerStatus,
		Specializations:      u.Specializations,
		ApprovedAt:           u.ApprovedAt,
		TrainerApplicationID: u.TrainerApplicationID,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

// AuthResponse is returned by login and token refresh
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}
