package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   &AppError{Code: CodeNotFound, Message: "resource not found"},
			expected: "resource not found",
		},
		{
			name:     "with wrapped error",
			appErr:   &AppError{Code: CodeInternalError, Message: "internal error", Err: errors.New("db down")},
			expected: "internal error: db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_WithError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	wrapped := ErrInternalError.WithError(cause)

	if wrapped.Code != CodeInternalError {
		t.Errorf("WithError() Code = %v, want %v", wrapped.Code, CodeInternalError)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("WithError() should keep the cause in the chain")
	}
	if !errors.Is(wrapped, ErrInternalError) {
		t.Error("copy should still match its sentinel")
	}
	if ErrInternalError.Err != nil {
		t.Error("WithError() must not modify the sentinel")
	}
}

func TestAppError_WithMessage(t *testing.T) {
	custom := ErrBadRequest.WithMessage("custom")

	if custom.Message != "custom" {
		t.Errorf("WithMessage() Message = %v, want custom", custom.Message)
	}
	if custom.Status != http.StatusBadRequest {
		t.Errorf("WithMessage() Status = %v, want %v", custom.Status, http.StatusBadRequest)
	}
	if ErrBadRequest.Message != "bad request" {
		t.Error("WithMessage() must not modify the sentinel")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   *AppError
		expected bool
	}{
		{"same error", ErrNotFound, ErrNotFound, true},
		{"copy with same code", ErrNotFound.WithMessage("job not found"), ErrNotFound, true},
		{"different codes", ErrBadRequest, ErrNotFound, false},
		{"plain error", errors.New("plain"), ErrNotFound, false},
		{"nil error", nil, ErrNotFound, false},
		{"fmt wrapped", fmt.Errorf("wrapped: %w", ErrUnauthorized), ErrUnauthorized, true},
		{"typed conflict", NewApplicationAlreadyReviewed(3, "approved"), ErrApplicationAlreadyReviewed, true},
		{"typed form error", NewFormSubmissionError(nil), ErrFormSubmission, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.target); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"conflict", ErrConflict, http.StatusConflict},
		{"wrapped", fmt.Errorf("wrapped: %w", ErrForbidden), http.StatusForbidden},
		{"already reviewed", NewApplicationAlreadyReviewed(1, "rejected"), http.StatusConflict},
		{"application not found", NewApplicationNotFound(9), http.StatusNotFound},
		{"invalid transition input", NewInvalidTransitionInput("reason is required"), http.StatusBadRequest},
		{"form submission", NewFormSubmissionError(nil), http.StatusUnprocessableEntity},
		{"plain error", errors.New("plain"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetStatus(tt.err); got != tt.expected {
				t.Errorf("GetStatus() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetMessageAndCode(t *testing.T) {
	if got := GetMessage(ErrEmailAlreadyRegistered); got != "Email already registered" {
		t.Errorf("GetMessage() = %v, want Email already registered", got)
	}
	if got := GetMessage(errors.New("boom")); got != ErrInternalError.Message {
		t.Errorf("GetMessage() = %v, want %v", got, ErrInternalError.Message)
	}
	if got := GetCode(NewApplicationNotFound(1)); got != CodeApplicationNotFound {
		t.Errorf("GetCode() = %v, want %v", got, CodeApplicationNotFound)
	}
	if got := GetCode(errors.New("boom")); got != CodeInternalError {
		t.Errorf("GetCode() = %v, want %v", got, CodeInternalError)
	}
}

func BenchmarkGetStatus(b *testing.B) {
	err := fmt.Errorf("wrapped: %w", NewApplicationAlreadyReviewed(1, "approved"))
	for i := 0; i < b.N; i++ {
		GetStatus(err)
	}
}
