package response

import (
	"time"

	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// ApiResponse is the JSON envelope every REST endpoint answers with.
// Code is set only on failures that carry an application error.
type ApiResponse[T any] struct {
	Success   bool      `json:"success"`
	Code      string    `json:"code,omitempty"`
	Message   string    `json:"message,omitempty"`
	Data      T         `json:"data,omitempty"`
	Errors    any       `json:"errors,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func envelope[T any](ok bool, message string) ApiResponse[T] {
	return ApiResponse[T]{Success: ok, Message: message, Timestamp: time.Now().UTC()}
}

// NewSuccess wraps data with a human readable message
func NewSuccess[T any](data T, message string) ApiResponse[T] {
	resp := envelope[T](true, message)
	resp.Data = data
	return resp
}

// NewSuccessWithData wraps data without a message
func NewSuccessWithData[T any](data T) ApiResponse[T] {
	return NewSuccess(data, "")
}

// NewErrorWithDetails is a failure envelope with per-field details and no code
func NewErrorWithDetails[T any](message string, details any) ApiResponse[T] {
	resp := envelope[T](false, message)
	resp.Errors = details
	return resp
}

// NewErrorFrom renders err with its code, client-facing message and details.
// Anything that is not an application error renders as an internal error.
func NewErrorFrom(err error) ApiResponse[any] {
	resp := NewErrorWithDetails[any](apperrors.GetMessage(err), apperrors.GetDetails(err))
	resp.Code = apperrors.GetCode(err)
	return resp
}

// PageInfo describes one page of a listing. Pages are 1-based.
type PageInfo struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// PagedResponse is a page of items with its PageInfo
type PagedResponse[T any] struct {
	Items    []T      `json:"items"`
	PageInfo PageInfo `json:"page_info"`
}

// NewPagedResponse computes the page count from total and size. A page past
// the end still reports HasPrev.
func NewPagedResponse[T any](items []T, page, size int, total int64) PagedResponse[T] {
	pages := int((total + int64(size) - 1) / int64(size))
	return PagedResponse[T]{
		Items: items,
		PageInfo: PageInfo{
			Page:       page,
			Size:       size,
			TotalItems: total,
			TotalPages: pages,
			HasNext:    page < pages,
			HasPrev:    page > 1,
		},
	}
}
