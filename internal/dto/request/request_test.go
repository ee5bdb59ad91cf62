package request

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fithub/fithub-onboarding/internal/domain/registration"
)

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, Register(v))
	return v
}

func TestRegistrationRequest_Values(t *testing.T) {
	req := RegistrationRequest{
		FirstName:    "Asha",
		Email:        "asha@example.com",
		Role:         "trainer",
		AgreeToTerms: true,
		Experience:   "years",
	}

	values := req.Values()
	assert.Equal(t, "Asha", values[registration.FieldFirstName])
	assert.Equal(t, "trainer", values[registration.FieldRole])
	assert.Equal(t, "true", values[registration.FieldAgreeToTerms])
	assert.Equal(t, "false", values[registration.FieldSubscribeNewsletter])
	assert.Equal(t, "years", values[registration.FieldExperience])
	assert.Len(t, values, len(registration.AllFields()))
}

func TestFieldCheckRequest_Binding(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(FieldCheckRequest{Field: "phone", Value: "98"}))
	assert.Error(t, v.Struct(FieldCheckRequest{Field: "nickname"}))
	assert.Error(t, v.Struct(FieldCheckRequest{}))

	req := FieldCheckRequest{Context: map[string]string{"password": "abcdefgh"}}
	assert.Equal(t, "abcdefgh", req.ContextValues()[registration.FieldPassword])
}

func TestApplicationListQuery_Binding(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		query   ApplicationListQuery
		wantErr bool
	}{
		{"no filter", ApplicationListQuery{Page: 1, Size: 20}, false},
		{"pending", ApplicationListQuery{Status: "pending", Page: 1, Size: 20}, false},
		{"unknown status", ApplicationListQuery{Status: "archived", Page: 1, Size: 20}, true},
		{"page zero", ApplicationListQuery{Page: 0, Size: 20}, true},
		{"size too big", ApplicationListQuery{Page: 1, Size: 500}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
