package request

import (
	"strconv"

	"github.com/fithub/fithub-onboarding/internal/domain/registration"
)

// RegistrationRequest is the sign-up form. Keys match the form field names.
// Binding only bounds sizes; field rules and their messages come from the
// registration validator.
type RegistrationRequest struct {
	FirstName           string `json:"firstName" binding:"max=100"`
	LastName            string `json:"lastName" binding:"max=100"`
	Email               string `json:"email" binding:"max=254"`
	Phone               string `json:"phone" binding:"max=32"`
	Password            string `json:"password" binding:"max=256"`
	ConfirmPassword     string `json:"confirmPassword" binding:"max=256"`
	DateOfBirth         string `json:"dateOfBirth" binding:"max=40"`
	Gender              string `json:"gender" binding:"max=32"`
	Role                string `json:"role" binding:"max=16"`
	AgreeToTerms        bool   `json:"agreeToTerms"`
	SubscribeNewsletter bool   `json:"subscribeNewsletter"`

	Experience      string `json:"experience,omitempty" binding:"max=5000"`
	Certifications  string `json:"certifications,omitempty" binding:"max=2000"`
	Specializations string `json:"specializations,omitempty" binding:"max=2000"`
	Bio             string `json:"bio,omitempty" binding:"max=5000"`
	Motivation      string `json:"motivation,omitempty" binding:"max=5000"`
}

// Values flattens the request into validator input
func (r *RegistrationRequest) Values() registration.Values {
	return registration.Values{
		registration.FieldFirstName:           r.FirstName,
		registration.FieldLastName:            r.LastName,
		registration.FieldEmail:               r.Email,
		registration.FieldPhone:               r.Phone,
		registration.FieldPassword:            r.Password,
		registration.FieldConfirmPassword:     r.ConfirmPassword,
		registration.FieldDateOfBirth:         r.DateOfBirth,
		registration.FieldGender:              r.Gender,
		registration.FieldRole:                r.Role,
		registration.FieldAgreeToTerms:        strconv.FormatBool(r.AgreeToTerms),
		registration.FieldSubscribeNewsletter: strconv.FormatBool(r.SubscribeNewsletter),
		registration.FieldExperience:          r.Experience,
		registration.FieldCertifications:      r.Certifications,
		registration.FieldSpecializations:     r.Specializations,
		registration.FieldBio:                 r.Bio,
		registration.FieldMotivation:          r.Motivation,
	}
}

// FieldCheckRequest asks for the live verdict of one field. Context carries
// the other fields the rule depends on, such as password for confirmPassword.
type FieldCheckRequest struct {
	Field   string            `json:"field" binding:"required,registration_field"`
	Value   string            `json:"value" binding:"max=5000"`
	Context map[string]string `json:"context,omitempty" binding:"max=20"`
}

// ContextValues converts Context into validator input
func (r *FieldCheckRequest) ContextValues() registration.Values {
	out := make(registration.Values, len(r.Context))
	for k, v := range r.Context {
		out[registration.Field(k)] = v
	}
	return out
}

// StatusQuery looks up the latest application for an email
type StatusQuery struct {
	Email string `form:"email" binding:"required,max=254"`
}
