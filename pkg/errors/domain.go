package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Domain error codes
const (
	CodeFieldValidation            = "FIELD_VALIDATION_ERROR"
	CodeFormSubmission             = "FORM_SUBMISSION_ERROR"
	CodeApplicationNotFound        = "APPLICATION_NOT_FOUND"
	CodeApplicationAlreadyReviewed = "APPLICATION_ALREADY_REVIEWED"
	CodeInvalidTransitionInput     = "INVALID_TRANSITION_INPUT"
	CodeEmailAlreadyRegistered     = "EMAIL_ALREADY_REGISTERED"
	CodeApplicationPending         = "APPLICATION_PENDING"
	CodeUserNotFound               = "USER_NOT_FOUND"
	CodeInvalidCredentials         = "INVALID_CREDENTIALS"
	CodeAccountInactive            = "ACCOUNT_INACTIVE"
)

// Domain errors
var (
	ErrFieldValidation            = &AppError{Code: CodeFieldValidation, Message: "field is invalid", Status: http.StatusUnprocessableEntity}
	ErrFormSubmission             = &AppError{Code: CodeFormSubmission, Message: "registration form has invalid fields", Status: http.StatusUnprocessableEntity}
	ErrApplicationNotFound        = &AppError{Code: CodeApplicationNotFound, Message: "Application not found", Status: http.StatusNotFound}
	ErrApplicationAlreadyReviewed = &AppError{Code: CodeApplicationAlreadyReviewed, Message: "Application has already been reviewed", Status: http.StatusConflict}
	ErrInvalidTransitionInput     = &AppError{Code: CodeInvalidTransitionInput, Message: "invalid review input", Status: http.StatusBadRequest}
	ErrEmailAlreadyRegistered     = &AppError{Code: CodeEmailAlreadyRegistered, Message: "Email already registered", Status: http.StatusConflict}
	ErrApplicationPending         = &AppError{Code: CodeApplicationPending, Message: "Trainer application already exists", Status: http.StatusConflict}
	ErrUserNotFound               = &AppError{Code: CodeUserNotFound, Message: "user not found", Status: http.StatusNotFound}
	ErrInvalidCredentials         = &AppError{Code: CodeInvalidCredentials, Message: "Invalid credentials", Status: http.StatusUnauthorized}
	ErrAccountInactive            = &AppError{Code: CodeAccountInactive, Message: "account is disabled", Status: http.StatusForbidden}
)

// FieldValidationError reports one registration field that failed validation.
type FieldValidationError struct {
	Field   string `json:"field"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldValidationError) Unwrap() error {
	return ErrFieldValidation
}

// Details returns the payload rendered to API clients
func (e *FieldValidationError) Details() any {
	return e
}

// FormSubmissionError aggregates every failing field of a registration form.
type FormSubmissionError struct {
	Fields []*FieldValidationError
}

// NewFormSubmissionError builds the aggregate error, ordering fields by name
func NewFormSubmissionError(fields []*FieldValidationError) *FormSubmissionError {
	sorted := make([]*FieldValidationError, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Field < sorted[j].Field })
	return &FormSubmissionError{Fields: sorted}
}

func (e *FormSubmissionError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%s: %s", ErrFormSubmission.Message, strings.Join(parts, "; "))
}

func (e *FormSubmissionError) Unwrap() error {
	return ErrFormSubmission
}

// Field returns the failure for the named field, if any
func (e *FormSubmissionError) Field(name string) *FieldValidationError {
	for _, f := range e.Fields {
		if f.Field == name {
			return f
		}
	}
	return nil
}

// Details maps field names to their messages
func (e *FormSubmissionError) Details() any {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// ApplicationAlreadyReviewedError is returned when a review targets an
// application that has already left the pending state.
type ApplicationAlreadyReviewedError struct {
	ApplicationID uint
	Status        string
}

// NewApplicationAlreadyReviewed creates a conflict error for the application
func NewApplicationAlreadyReviewed(applicationID uint, status string) *ApplicationAlreadyReviewedError {
	return &ApplicationAlreadyReviewedError{ApplicationID: applicationID, Status: status}
}

func (e *ApplicationAlreadyReviewedError) Error() string {
	return fmt.Sprintf("application %d is already %s", e.ApplicationID, e.Status)
}

func (e *ApplicationAlreadyReviewedError) Unwrap() error {
	return ErrApplicationAlreadyReviewed
}

// Details identifies the application and its terminal status
func (e *ApplicationAlreadyReviewedError) Details() any {
	return map[string]any{
		"applicationId": e.ApplicationID,
		"status":        e.Status,
	}
}

// NewApplicationNotFound creates a not-found error naming the application
func NewApplicationNotFound(applicationID uint) *AppError {
	return ErrApplicationNotFound.WithError(fmt.Errorf("application %d", applicationID))
}

// NewInvalidTransitionInput creates an input error with a specific message
func NewInvalidTransitionInput(message string) *AppError {
	return ErrInvalidTransitionInput.WithMessage(message)
}

type detailer interface {
	Details() any
}

// GetDetails returns structured details carried by err, or nil
func GetDetails(err error) any {
	var d detailer
	if errors.As(err, &d) {
		return d.Details()
	}
	return nil
}
