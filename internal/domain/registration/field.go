// Package registration holds the field rules for the sign-up form. Every
// check is a pure function of the field value and the rest of the payload,
// so it can run per keystroke, on blur, or over the whole form.
package registration

import (
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// Field names a registration form field
type Field string

const (
	FieldFirstName           Field = "firstName"
	FieldLastName            Field = "lastName"
	FieldEmail               Field = "email"
	FieldPhone               Field = "phone"
	FieldPassword            Field = "password"
	FieldConfirmPassword     Field = "confirmPassword"
	FieldDateOfBirth         Field = "dateOfBirth"
	FieldGender              Field = "gender"
	FieldRole                Field = "role"
	FieldAgreeToTerms        Field = "agreeToTerms"
	FieldSubscribeNewsletter Field = "subscribeNewsletter"

	FieldExperience      Field = "experience"
	FieldCertifications  Field = "certifications"
	FieldSpecializations Field = "specializations"
	FieldBio             Field = "bio"
	FieldMotivation      Field = "motivation"
)

// CommonFields are present on every registration, in form order
var CommonFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldPassword,
	FieldConfirmPassword,
	FieldDateOfBirth,
	FieldGender,
	FieldRole,
	FieldAgreeToTerms,
	FieldSubscribeNewsletter,
}

// TrainerFields are only constrained when the role is trainer
var TrainerFields = []Field{
	FieldExperience,
	FieldCertifications,
	FieldSpecializations,
	FieldBio,
	FieldMotivation,
}

// AllFields returns every known field in form order
func AllFields() []Field {
	out := make([]Field, 0, len(CommonFields)+len(TrainerFields))
	out = append(out, CommonFields...)
	return append(out, TrainerFields...)
}

// KnownField reports whether f is a registration field
func KnownField(f Field) bool {
	for _, k := range AllFields() {
		if k == f {
			return true
		}
	}
	return false
}

// IsTrainerField reports whether f only applies to trainer registrations
func IsTrainerField(f Field) bool {
	for _, k := range TrainerFields {
		if k == f {
			return true
		}
	}
	return false
}

// Role is the kind of account being registered
type Role string

const (
	RoleUser    Role = "user"
	RoleTrainer Role = "trainer"
)

// IsValid checks if the role can be registered
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleTrainer
}

// Gender options offered by the form
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer-not-to-say"
)

// IsValid checks if the gender is one of the offered options
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// Status classifies a field value
type Status string

const (
	StatusEmpty   Status = "empty"
	StatusPartial Status = "partial"
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// Verdict is the outcome of checking one field
type Verdict struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// IsValid reports whether the field passed
func (v Verdict) IsValid() bool {
	return v.Status == StatusValid
}

// Err converts a failing verdict into a field validation error
func (v Verdict) Err(field Field) *apperrors.FieldValidationError {
	if v.IsValid() {
		return nil
	}
	return &apperrors.FieldValidationError{
		Field:   string(field),
		Status:  string(v.Status),
		Message: v.Message,
	}
}

func valid() Verdict {
	return Verdict{Status: StatusValid}
}

func invalid(msg string) Verdict {
	return Verdict{Status: StatusInvalid, Message: msg}
}

// Values is the flat form payload keyed by field. Checkbox fields hold
// "true" or "false".
type Values map[Field]string

// Clone returns a copy of the values
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
