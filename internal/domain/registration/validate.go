package registration

import (
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// RequiredFields returns the fields that must be valid for the role to be
// submitted. Trainer fields are required if and only if role is trainer.
func RequiredFields(role Role) []Field {
	out := make([]Field, 0, len(CommonFields)+len(TrainerFields))
	for _, f := range CommonFields {
		if f == FieldSubscribeNewsletter {
			continue
		}
		out = append(out, f)
	}
	if role == RoleTrainer {
		out = append(out, TrainerFields...)
	}
	return out
}

// Result holds the verdict of every field after a whole-form run
type Result struct {
	Role     Role
	Verdicts map[Field]Verdict
}

// Eligible reports whether every required field is valid
func (r Result) Eligible() bool {
	for _, f := range RequiredFields(r.Role) {
		if !r.Verdicts[f].IsValid() {
			return false
		}
	}
	return true
}

// Errors returns the message of each failing required field
func (r Result) Errors() map[Field]string {
	out := make(map[Field]string)
	for _, f := range RequiredFields(r.Role) {
		if v := r.Verdicts[f]; !v.IsValid() {
			out[f] = v.Message
		}
	}
	return out
}

// Err returns a FormSubmissionError when the form is not eligible
func (r Result) Err() error {
	var failures []*apperrors.FieldValidationError
	for _, f := range RequiredFields(r.Role) {
		if fe := r.Verdicts[f].Err(f); fe != nil {
			failures = append(failures, fe)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return apperrors.NewFormSubmissionError(failures)
}

// Validate runs every field rule over values
func (v *Validator) Validate(values Values) Result {
	res := Result{
		Role:     Role(values[FieldRole]),
		Verdicts: make(map[Field]Verdict, len(CommonFields)+len(TrainerFields)),
	}
	for _, f := range AllFields() {
		res.Verdicts[f] = v.Check(f, values[f], values)
	}
	return res
}

// ValidateRegistration runs every field rule over a typed registration
func (v *Validator) ValidateRegistration(r Registration) Result {
	return v.Validate(r.Values())
}

// Accept validates values and, when every required field passes, returns
// the typed registration. Otherwise the error is a FormSubmissionError.
func (v *Validator) Accept(values Values) (Registration, error) {
	if err := v.Validate(values).Err(); err != nil {
		return nil, err
	}
	return Parse(values)
}
