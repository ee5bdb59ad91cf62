package registration

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultMinimumAge is the youngest age allowed to register
const DefaultMinimumAge = 13

const (
	minExperienceLength = 50
	minBioLength        = 30
)

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// dateLayouts are the accepted date of birth encodings
var dateLayouts = []string{"2006-01-02", time.RFC3339}

type rule func(v *Validator, value string, ctx Values) Verdict

// Validator checks registration fields. It keeps no state between calls
// and is safe for concurrent use.
type Validator struct {
	now        func() time.Time
	minimumAge int
	rules      map[Field]rule
}

// Option configures a Validator
type Option func(*Validator)

// WithClock sets the time source used for the age check
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// WithMinimumAge overrides the minimum registration age
func WithMinimumAge(years int) Option {
	return func(v *Validator) {
		if years > 0 {
			v.minimumAge = years
		}
	}
}

// New creates a Validator
func New(opts ...Option) *Validator {
	v := &Validator{
		now:        time.Now,
		minimumAge: DefaultMinimumAge,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.rules = map[Field]rule{
		FieldFirstName:           nameRule("First name"),
		FieldLastName:            nameRule("Last name"),
		FieldEmail:               checkEmail,
		FieldPhone:               func(_ *Validator, value string, _ Values) Verdict { return checkPhone(value) },
		FieldPassword:            checkPassword,
		FieldConfirmPassword:     checkConfirmPassword,
		FieldDateOfBirth:         (*Validator).checkDateOfBirth,
		FieldGender:              checkGender,
		FieldRole:                checkRole,
		FieldAgreeToTerms:        checkTerms,
		FieldSubscribeNewsletter: func(*Validator, string, Values) Verdict { return valid() },
		FieldExperience:          trainerOnly(minLengthRule("Experience is required", "Experience must be at least 50 characters", minExperienceLength)),
		FieldCertifications:      trainerOnly(requiredRule("Certifications are required")),
		FieldSpecializations:     trainerOnly(requiredRule("Specializations are required")),
		FieldBio:                 trainerOnly(minLengthRule("Bio is required", "Bio must be at least 30 characters", minBioLength)),
		FieldMotivation:          trainerOnly(requiredRule("Please tell us why you want to become a trainer")),
	}
	return v
}

// MinimumAge returns the configured minimum age
func (v *Validator) MinimumAge() int {
	return v.minimumAge
}

// Check returns the verdict for one field. ctx is the rest of the payload
// and is consulted by cross-field rules (confirmPassword reads password,
// trainer fields read role). Unknown fields are always valid.
func (v *Validator) Check(field Field, value string, ctx Values) Verdict {
	r, ok := v.rules[field]
	if !ok {
		return valid()
	}
	return r(v, value, ctx)
}

func nameRule(label string) rule {
	required := label + " is required"
	letters := label + " can only contain letters and spaces"
	return func(_ *Validator, value string, _ Values) Verdict {
		if strings.TrimSpace(value) == "" {
			return invalid(required)
		}
		if !namePattern.MatchString(value) {
			return invalid(letters)
		}
		return valid()
	}
}

func checkEmail(_ *Validator, value string, _ Values) Verdict {
	if strings.TrimSpace(value) == "" {
		return invalid("Email is required")
	}
	if !emailPattern.MatchString(value) {
		return invalid("Please enter a valid email address")
	}
	return valid()
}

func checkPassword(_ *Validator, value string, _ Values) Verdict {
	if value == "" {
		return invalid("Password is required")
	}
	if utf8.RuneCountInString(value) < 8 {
		return invalid("Password must be at least 8 characters long")
	}
	return valid()
}

func checkConfirmPassword(_ *Validator, value string, ctx Values) Verdict {
	if value == "" {
		return invalid("Please confirm your password")
	}
	if value != ctx[FieldPassword] {
		return invalid("Passwords do not match")
	}
	return valid()
}

// checkDateOfBirth subtracts birth year from the current year. Month and
// day are ignored, so someone whose birthday is still ahead this year is
// counted a year older.
func (v *Validator) checkDateOfBirth(value string, _ Values) Verdict {
	if strings.TrimSpace(value) == "" {
		return invalid("Date of birth is required")
	}
	born, ok := ParseDate(value)
	if !ok {
		return invalid("Please enter a valid date of birth")
	}
	if v.now().Year()-born.Year() < v.minimumAge {
		return invalid("You must be at least " + strconv.Itoa(v.minimumAge) + " years old to register")
	}
	return valid()
}

// ParseDate parses a date of birth in any accepted layout
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func checkGender(_ *Validator, value string, _ Values) Verdict {
	if !Gender(value).IsValid() {
		return invalid("Please select your gender")
	}
	return valid()
}

func checkRole(_ *Validator, value string, _ Values) Verdict {
	if value == "" {
		return invalid("Please choose an account type")
	}
	if !Role(value).IsValid() {
		return invalid("Account type must be user or trainer")
	}
	return valid()
}

func checkTerms(_ *Validator, value string, _ Values) Verdict {
	if !parseBool(value) {
		return invalid("You must agree to the terms and conditions")
	}
	return valid()
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}

// trainerOnly applies r only when the payload's role is trainer
func trainerOnly(r rule) rule {
	return func(v *Validator, value string, ctx Values) Verdict {
		if Role(ctx[FieldRole]) != RoleTrainer {
			return valid()
		}
		return r(v, value, ctx)
	}
}

func requiredRule(msg string) rule {
	return func(_ *Validator, value string, _ Values) Verdict {
		if strings.TrimSpace(value) == "" {
			return invalid(msg)
		}
		return valid()
	}
}

func minLengthRule(requiredMsg, shortMsg string, min int) rule {
	return func(_ *Validator, value string, _ Values) Verdict {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return invalid(requiredMsg)
		}
		if utf8.RuneCountInString(trimmed) < min {
			return invalid(shortMsg)
		}
		return valid()
	}
}
