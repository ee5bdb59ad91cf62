package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormSubmissionError(t *testing.T) {
	err := NewFormSubmissionError([]*FieldValidationError{
		{Field: "phone", Status: "partial", Message: "Enter 3 more digits"},
		{Field: "email", Status: "invalid", Message: "Email is required"},
	})

	require.Len(t, err.Fields, 2)
	assert.Equal(t, "email", err.Fields[0].Field, "fields are sorted by name")
	assert.Equal(t, "Enter 3 more digits", err.Field("phone").Message)
	assert.Nil(t, err.Field("bio"))
	assert.Contains(t, err.Error(), "email: Email is required")
	assert.Equal(t, map[string]string{
		"email": "Email is required",
		"phone": "Enter 3 more digits",
	}, GetDetails(err))
}

func TestApplicationAlreadyReviewedError(t *testing.T) {
	err := fmt.Errorf("approve: %w", NewApplicationAlreadyReviewed(42, "rejected"))

	var conflict *ApplicationAlreadyReviewedError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, uint(42), conflict.ApplicationID)
	assert.Equal(t, "rejected", conflict.Status)
	assert.Equal(t, "application 42 is already rejected", conflict.Error())
	assert.Equal(t, map[string]any{"applicationId": uint(42), "status": "rejected"}, GetDetails(err))
	assert.True(t, Is(err, ErrApplicationAlreadyReviewed))
	assert.False(t, Is(err, ErrApplicationNotFound))
}

func TestFieldValidationError(t *testing.T) {
	err := &FieldValidationError{Field: "bio", Status: "invalid", Message: "Bio must be at least 30 characters"}

	assert.True(t, Is(err, ErrFieldValidation))
	assert.Equal(t, "bio: Bio must be at least 30 characters", err.Error())
	assert.Same(t, err, GetDetails(err))
}

func TestGetDetails_NoDetails(t *testing.T) {
	assert.Nil(t, GetDetails(ErrNotFound))
	assert.Nil(t, GetDetails(errors.New("plain")))
	assert.Nil(t, GetDetails(nil))
}
