package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// StatusCode maps the error code to an HTTP status for the error middleware.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrGeneration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrGeneration
	ErrDataIntegrity
)

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// GenerationFailed wraps an external text-generation failure, including
// responses that could not be parsed.
func GenerationFailed(message string, err error) *AppError {
	return &AppError{
		Code:    ErrGeneration,
		Message: message,
		Err:     err,
	}
}

// DataIntegrity flags a violated internal invariant, e.g. a non-empty list
// whose first element is missing.
func DataIntegrity(message string) *AppError {
	return &AppError{
		Code:    ErrDataIntegrity,
		Message: message,
	}
}

// Code checkers used by callers that need to branch on the failure class.
func IsNotFound(err error) bool      { return hasCode(err, ErrNotFound) }
func IsBadRequest(err error) bool    { return hasCode(err, ErrBadRequest) }
func IsUnauthorized(err error) bool  { return hasCode(err, ErrUnauthorized) }
func IsGeneration(err error) bool    { return hasCode(err, ErrGeneration) }
func IsDataIntegrity(err error) bool { return hasCode(err, ErrDataIntegrity) }

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
