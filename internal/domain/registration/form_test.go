package registration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormState_ConfirmPasswordFollowsPassword(t *testing.T) {
	form := NewFormState(newTestValidator())

	form.Set(FieldPassword, "abcdefgh")
	got := form.Set(FieldConfirmPassword, "abcdefgh")
	assert.True(t, got.IsValid())

	form.Set(FieldPassword, "abcdefghX")

	confirm, ok := form.Verdict(FieldConfirmPassword)
	require.True(t, ok)
	assert.Equal(t, invalid("Passwords do not match"), confirm)

	form.Set(FieldPassword, "abcdefgh")
	confirm, _ = form.Verdict(FieldConfirmPassword)
	assert.True(t, confirm.IsValid())
}

func TestFormState_UntouchedDependentStaysUnchecked(t *testing.T) {
	form := NewFormState(newTestValidator())

	form.Set(FieldPassword, "abcdefgh")

	_, ok := form.Verdict(FieldConfirmPassword)
	assert.False(t, ok)
}

func TestFormState_RoleToggle(t *testing.T) {
	form := NewFormState(newTestValidator())
	for f, val := range validUserValues() {
		form.Set(f, val)
	}

	form.Set(FieldRole, "trainer")
	res := form.ValidateAll()
	assert.False(t, res.Eligible())
	for _, f := range TrainerFields {
		v, _ := form.Verdict(f)
		assert.False(t, v.IsValid(), "%s should be required for trainers", f)
	}

	form.Set(FieldRole, "user")
	for _, f := range TrainerFields {
		v, _ := form.Verdict(f)
		assert.True(t, v.IsValid(), "%s should be unconstrained for users", f)
	}
	assert.True(t, form.ValidateAll().Eligible())

	form.Set(FieldRole, "trainer")
	for _, f := range TrainerFields {
		v, _ := form.Verdict(f)
		assert.False(t, v.IsValid(), "%s should be required again", f)
	}
}

func TestFormState_PhoneInputSanitized(t *testing.T) {
	form := NewFormState(newTestValidator())

	got := form.Set(FieldPhone, "98-76")
	assert.Equal(t, "9876", form.Value(FieldPhone))
	assert.Equal(t, Verdict{Status: StatusPartial, Message: "Enter 6 more digits"}, got)

	got = form.Set(FieldPhone, "+91 98765 43210")
	assert.Equal(t, "9198765432", form.Value(FieldPhone))
	assert.True(t, got.IsValid())

	got = form.Set(FieldPhone, "987654321099")
	assert.Equal(t, "9876543210", form.Value(FieldPhone))
	assert.True(t, got.IsValid())
}

func TestFormState_BlurIsIdempotent(t *testing.T) {
	form := NewFormState(newTestValidator())

	first := form.Set(FieldFirstName, "Asha1")
	assert.Equal(t, first, form.Blur(FieldFirstName))
	assert.Equal(t, first, form.Blur(FieldFirstName))
}

func TestFormState_Registration(t *testing.T) {
	form := NewFormState(newTestValidator())
	for f, val := range validTrainerValues() {
		form.Set(f, val)
	}

	reg, err := form.Registration()
	require.NoError(t, err)
	assert.Equal(t, RoleTrainer, reg.Role())

	form.Set(FieldExperience, strings.Repeat("e", 49))
	_, err = form.Registration()
	assert.Error(t, err)

	verdicts := form.Verdicts()
	assert.Len(t, verdicts, len(AllFields()))
	assert.False(t, verdicts[FieldExperience].IsValid())
}
