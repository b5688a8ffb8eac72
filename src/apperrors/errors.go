// Package apperrors provides the error types returned by services and rendered by the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an error that knows how it should be presented to an API client.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// WithMessage returns a copy of the error with a custom message.
func (e *APIError) WithMessage(message string) *APIError {
	return &APIError{
		Code:       e.Code,
		Message:    message,
		StatusCode: e.StatusCode,
		Details:    e.Details,
	}
}

// Is reports whether target is an APIError with the same code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

const (
	CodeNotFound            = "not_found"
	CodeDuplicateConnection = "duplicate_connection"
	CodeConflict            = "conflict"
	CodeValidation          = "validation_error"
	CodeBadRequest          = "bad_request"
	CodeUnauthorized        = "unauthorized"
	CodeForbidden           = "forbidden"
	CodeInternal            = "internal_error"
	CodeUnavailable         = "service_unavailable"
)

var (
	// ErrNotFound is returned when a user, connection or message does not resolve.
	ErrNotFound = &APIError{
		Code:       CodeNotFound,
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	// ErrDuplicateConnection is returned when the unordered user pair already has a connection.
	ErrDuplicateConnection = &APIError{
		Code:       CodeDuplicateConnection,
		Message:    "Connection already exists",
		StatusCode: http.StatusConflict,
	}

	// ErrConflict is returned when a unique resource already exists or a transition is not allowed.
	ErrConflict = &APIError{
		Code:       CodeConflict,
		Message:    "Resource already exists",
		StatusCode: http.StatusConflict,
	}

	ErrBadRequest = &APIError{
		Code:       CodeBadRequest,
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrUnauthorized = &APIError{
		Code:       CodeUnauthorized,
		Message:    "Authentication required",
		StatusCode: http.StatusUnauthorized,
	}

	ErrForbidden = &APIError{
		Code:       CodeForbidden,
		Message:    "You don't have permission to perform this action",
		StatusCode: http.StatusForbidden,
	}

	// ErrInternal is returned for unexpected server errors.
	ErrInternal = &APIError{
		Code:       CodeInternal,
		Message:    "An internal error occurred",
		StatusCode: http.StatusInternalServerError,
	}

	ErrServiceUnavailable = &APIError{
		Code:       CodeUnavailable,
		Message:    "Service temporarily unavailable",
		StatusCode: http.StatusServiceUnavailable,
	}
)

// NewNotFoundError creates a not found error for a specific resource type.
func NewNotFoundError(resource string) *APIError {
	return ErrNotFound.WithMessage(fmt.Sprintf("%s not found", resource))
}

// NewConflictError creates a conflict error with a custom message.
func NewConflictError(message string) *APIError {
	return ErrConflict.WithMessage(message)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *APIError {
	return &APIError{
		Code:       CodeValidation,
		Message:    fmt.Sprintf("Validation failed: %s", message),
		StatusCode: http.StatusBadRequest,
		Details: map[string]string{
			"field": field,
			"error": message,
		},
	}
}

// NewValidationErrors creates a validation error with multiple field errors.
func NewValidationErrors(fields map[string]string) *APIError {
	return &APIError{
		Code:       CodeValidation,
		Message:    "One or more fields failed validation",
		StatusCode: http.StatusBadRequest,
		Details:    fields,
	}
}

// AsAPIError unwraps err into an APIError. Anything else becomes ErrInternal.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return ErrInternal
}

// HasCode reports whether err is an APIError carrying code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
