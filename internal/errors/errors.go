package errors

import "fmt"

// ErrorCode represents a scrapedash error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrQueryFailed       ErrorCode = "QUERY_FAILED"       // 502
	ErrSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE" // 503
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// DashError represents a structured error with code, status, and details.
type DashError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *DashError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying driver or I/O error, if any.
func (e *DashError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *DashError {
	return &DashError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a capture cannot be found.
func NewNotFound(identifier string) *DashError {
	return &DashError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("capture not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewSourceUnavailable creates a 503 error for a missing or unreachable data source.
func NewSourceUnavailable(reason string) *DashError {
	return &DashError{
		Code:    ErrSourceUnavailable,
		Status:  503,
		Message: fmt.Sprintf("data source unavailable: %s", reason),
	}
}

// NewQueryFailed creates a 502 error wrapping a failed read against the data source.
func NewQueryFailed(query string, err error) *DashError {
	msg := "query failed"
	if err != nil {
		msg = fmt.Sprintf("query %s failed: %v", query, err)
	}
	return &DashError{
		Code:    ErrQueryFailed,
		Status:  502,
		Message: msg,
		Details: map[string]any{"query": query},
		cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *DashError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DashError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is a DashError with the given code.
func Is(err error, code ErrorCode) bool {
	if dErr, ok := err.(*DashError); ok {
		return dErr.Code == code
	}
	return false
}
