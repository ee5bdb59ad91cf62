package registration

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

var fixedNow = time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func validUserValues() Values {
	return Values{
		FieldFirstName:           "Asha",
		FieldLastName:            "Rao",
		FieldEmail:               "asha.rao@example.com",
		FieldPhone:               "9876543210",
		FieldPassword:            "abcdefgh",
		FieldConfirmPassword:     "abcdefgh",
		FieldDateOfBirth:         "1995-04-02",
		FieldGender:              "female",
		FieldRole:                "user",
		FieldAgreeToTerms:        "true",
		FieldSubscribeNewsletter: "false",
	}
}

func validTrainerValues() Values {
	v := validUserValues()
	v[FieldRole] = "trainer"
	v[FieldExperience] = strings.Repeat("x", 50)
	v[FieldCertifications] = "ACE-CPT"
	v[FieldSpecializations] = "Yoga, mobility"
	v[FieldBio] = "Certified yoga instructor from Pune."
	v[FieldMotivation] = "I want to coach beginners."
	return v
}

func TestValidator_Names(t *testing.T) {
	v := newTestValidator()
	tests := []struct {
		name  string
		field Field
		value string
		want  Verdict
	}{
		{"first name ok", FieldFirstName, "Mary Ann", valid()},
		{"first name blank", FieldFirstName, "   ", invalid("First name is required")},
		{"first name apostrophe", FieldFirstName, "O'Neil", invalid("First name can only contain letters and spaces")},
		{"last name digits", FieldLastName, "Rao2", invalid("Last name can only contain letters and spaces")},
		{"last name empty", FieldLastName, "", invalid("Last name is required")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Check(tt.field, tt.value, nil))
		})
	}
}

func TestValidator_Email(t *testing.T) {
	v := newTestValidator()
	tests := []struct {
		value string
		want  Verdict
	}{
		{"user@example.com", valid()},
		{"a@b.co", valid()},
		{"", invalid("Email is required")},
		{"  ", invalid("Email is required")},
		{"user@example", invalid("Please enter a valid email address")},
		{"user@@example.com", invalid("Please enter a valid email address")},
		{"us er@example.com", invalid("Please enter a valid email address")},
		{"userexample.com", invalid("Please enter a valid email address")},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Check(FieldEmail, tt.value, nil))
		})
	}
}

func TestValidator_Password(t *testing.T) {
	v := newTestValidator()

	assert.Equal(t, invalid("Password is required"), v.Check(FieldPassword, "", nil))
	assert.Equal(t, invalid("Password must be at least 8 characters long"), v.Check(FieldPassword, "abcdefg", nil))
	assert.Equal(t, valid(), v.Check(FieldPassword, "abcdefgh", nil))

	ctx := Values{FieldPassword: "abcdefgh"}
	assert.Equal(t, invalid("Please confirm your password"), v.Check(FieldConfirmPassword, "", ctx))
	assert.Equal(t, invalid("Passwords do not match"), v.Check(FieldConfirmPassword, "abcdefgX", ctx))
	assert.Equal(t, valid(), v.Check(FieldConfirmPassword, "abcdefgh", ctx))
}

func TestValidator_DateOfBirth(t *testing.T) {
	v := newTestValidator()
	tests := []struct {
		name  string
		value string
		want  Verdict
	}{
		{"missing", "", invalid("Date of birth is required")},
		{"unparseable", "15/06/2010", invalid("Please enter a valid date of birth")},
		{"adult", "1990-01-01", valid()},
		{"thirteen by year", "2013-01-01", valid()},
		// birthday later this year still counts as thirteen
		{"thirteen by year, birthday ahead", "2013-12-31", valid()},
		{"twelve", "2014-01-01", invalid("You must be at least 13 years old to register")},
		{"rfc3339", "2000-02-29T00:00:00Z", valid()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Check(FieldDateOfBirth, tt.value, nil))
		})
	}
}

func TestValidator_MinimumAgeOption(t *testing.T) {
	v := New(WithClock(func() time.Time { return fixedNow }), WithMinimumAge(18))

	assert.Equal(t, 18, v.MinimumAge())
	assert.Equal(t,
		invalid("You must be at least 18 years old to register"),
		v.Check(FieldDateOfBirth, "2010-01-01", nil))
}

func TestValidator_ChoiceFields(t *testing.T) {
	v := newTestValidator()

	for _, g := range []string{"male", "female", "other", "prefer-not-to-say"} {
		assert.True(t, v.Check(FieldGender, g, nil).IsValid(), g)
	}
	assert.Equal(t, invalid("Please select your gender"), v.Check(FieldGender, "", nil))
	assert.Equal(t, invalid("Please select your gender"), v.Check(FieldGender, "robot", nil))

	assert.Equal(t, invalid("You must agree to the terms and conditions"), v.Check(FieldAgreeToTerms, "false", nil))
	assert.Equal(t, invalid("You must agree to the terms and conditions"), v.Check(FieldAgreeToTerms, "", nil))
	assert.True(t, v.Check(FieldAgreeToTerms, "true", nil).IsValid())

	assert.False(t, v.Check(FieldRole, "", nil).IsValid())
	assert.False(t, v.Check(FieldRole, "admin", nil).IsValid())
	assert.True(t, v.Check(FieldRole, "trainer", nil).IsValid())

	assert.True(t, v.Check(FieldSubscribeNewsletter, "", nil).IsValid())
	assert.True(t, v.Check(Field("nickname"), "", nil).IsValid())
}

func TestValidator_TrainerFieldsFollowRole(t *testing.T) {
	v := newTestValidator()
	trainer := Values{FieldRole: "trainer"}
	user := Values{FieldRole: "user"}

	for _, f := range TrainerFields {
		t.Run(string(f), func(t *testing.T) {
			assert.True(t, v.Check(f, "", user).IsValid(), "unconstrained for users")
			assert.False(t, v.Check(f, "", trainer).IsValid(), "required for trainers")
			assert.False(t, v.Check(f, "   ", trainer).IsValid(), "blank is empty")
		})
	}
}

func TestValidator_ExperienceBoundary(t *testing.T) {
	v := newTestValidator()
	ctx := Values{FieldRole: "trainer"}

	assert.Equal(t,
		invalid("Experience must be at least 50 characters"),
		v.Check(FieldExperience, strings.Repeat("a", 49), ctx))
	assert.True(t, v.Check(FieldExperience, strings.Repeat("a", 50), ctx).IsValid())
	assert.True(t, v.Check(FieldExperience, "  "+strings.Repeat("a", 50)+"  ", ctx).IsValid())
	assert.False(t, v.Check(FieldExperience, "   "+strings.Repeat("a", 49)+"   ", ctx).IsValid())
}

func TestValidator_BioBoundary(t *testing.T) {
	v := newTestValidator()
	ctx := Values{FieldRole: "trainer"}

	assert.Equal(t, invalid("Bio must be at least 30 characters"), v.Check(FieldBio, strings.Repeat("b", 29), ctx))
	assert.True(t, v.Check(FieldBio, strings.Repeat("b", 30), ctx).IsValid())
}

func TestValidator_Validate(t *testing.T) {
	v := newTestValidator()

	t.Run("valid user", func(t *testing.T) {
		res := v.Validate(validUserValues())
		assert.True(t, res.Eligible())
		assert.Empty(t, res.Errors())
		assert.NoError(t, res.Err())
		assert.Len(t, res.Verdicts, len(AllFields()))
	})

	t.Run("valid trainer", func(t *testing.T) {
		res := v.Validate(validTrainerValues())
		assert.True(t, res.Eligible())
	})

	t.Run("trainer missing profile", func(t *testing.T) {
		values := validUserValues()
		values[FieldRole] = "trainer"
		res := v.Validate(values)

		assert.False(t, res.Eligible())
		assert.Len(t, res.Errors(), len(TrainerFields))

		var formErr *apperrors.FormSubmissionError
		require.True(t, errors.As(res.Err(), &formErr))
		assert.Equal(t, "Experience is required", formErr.Field("experience").Message)
	})

	t.Run("partial phone blocks submission", func(t *testing.T) {
		values := validUserValues()
		values[FieldPhone] = "98765"
		res := v.Validate(values)

		assert.False(t, res.Eligible())
		assert.Equal(t, StatusPartial, res.Verdicts[FieldPhone].Status)
		assert.Equal(t, "Enter 5 more digits", res.Errors()[FieldPhone])
	})
}

func TestRequiredFields(t *testing.T) {
	user := RequiredFields(RoleUser)
	trainer := RequiredFields(RoleTrainer)

	assert.NotContains(t, user, FieldSubscribeNewsletter)
	assert.NotContains(t, user, FieldExperience)
	assert.Len(t, trainer, len(user)+len(TrainerFields))
	for _, f := range TrainerFields {
		assert.Contains(t, trainer, f)
	}
}

func TestValidator_Accept(t *testing.T) {
	v := newTestValidator()

	t.Run("trainer", func(t *testing.T) {
		reg, err := v.Accept(validTrainerValues())
		require.NoError(t, err)

		tr, ok := reg.(*TrainerRegistration)
		require.True(t, ok, "expected *TrainerRegistration, got %T", reg)
		assert.Equal(t, RoleTrainer, tr.Role())
		assert.Equal(t, "ACE-CPT", tr.Profile.Certifications)
		assert.Equal(t, "asha.rao@example.com", tr.Account().Email)
	})

	t.Run("user drops trainer fields", func(t *testing.T) {
		values := validUserValues()
		values[FieldBio] = "ignored"
		reg, err := v.Accept(values)
		require.NoError(t, err)

		_, ok := reg.(*UserRegistration)
		require.True(t, ok, "expected *UserRegistration, got %T", reg)
		_, has := reg.Values()[FieldBio]
		assert.False(t, has)
	})

	t.Run("invalid", func(t *testing.T) {
		values := validUserValues()
		values[FieldEmail] = "nope"
		reg, err := v.Accept(values)

		assert.Nil(t, reg)
		assert.True(t, apperrors.Is(err, apperrors.ErrFormSubmission))
	})
}

func TestValidator_Idempotent(t *testing.T) {
	v := newTestValidator()
	values := validTrainerValues()
	values[FieldPhone] = "987654"

	first := v.Validate(values)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, v.Validate(values))
	}
}

func BenchmarkValidator_Validate(b *testing.B) {
	v := newTestValidator()
	values := validTrainerValues()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Validate(values)
	}
}
