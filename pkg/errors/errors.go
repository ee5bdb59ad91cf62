// Package errors defines the coded errors the API renders to clients.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries a stable code, a client-facing message and the HTTP
// status it maps to. Err holds the internal cause, which is never rendered.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError with the same code, so errors.Is works against
// the sentinels below after WithMessage or WithError.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

const (
	CodeNotFound      = "NOT_FOUND"
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeConflict      = "CONFLICT"
	CodeInternalError = "INTERNAL_ERROR"
)

var (
	ErrNotFound      = New(CodeNotFound, "resource not found", http.StatusNotFound)
	ErrBadRequest    = New(CodeBadRequest, "bad request", http.StatusBadRequest)
	ErrUnauthorized  = New(CodeUnauthorized, "unauthorized", http.StatusUnauthorized)
	ErrForbidden     = New(CodeForbidden, "forbidden", http.StatusForbidden)
	ErrConflict      = New(CodeConflict, "resource conflict", http.StatusConflict)
	ErrInternalError = New(CodeInternalError, "internal server error", http.StatusInternalServerError)
)

// New creates a new AppError
func New(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// WithMessage returns a copy with a different client-facing message
func (e *AppError) WithMessage(message string) *AppError {
	c := *e
	c.Message = message
	return &c
}

// WithError returns a copy wrapping err as the internal cause
func (e *AppError) WithError(err error) *AppError {
	c := *e
	c.Err = err
	return &c
}

// Is reports whether err is an AppError with target's code
func Is(err error, target *AppError) bool {
	return err != nil && errors.Is(err, target)
}

func as(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// GetStatus returns the HTTP status for err; unknown errors are 500
func GetStatus(err error) int {
	if appErr, ok := as(err); ok {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// GetMessage returns the client-facing message of err. Anything that is not
// an AppError gets the generic internal error message.
func GetMessage(err error) string {
	if appErr, ok := as(err); ok {
		return appErr.Message
	}
	return ErrInternalError.Message
}

// GetCode returns the error code of err
func GetCode(err error) string {
	if appErr, ok := as(err); ok {
		return appErr.Code
	}
	return CodeInternalError
}
