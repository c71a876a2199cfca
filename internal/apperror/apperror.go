// Package apperror defines the domain error taxonomy shared by the service
// layer and the HTTP handlers.
//
// Services return errors built from these sentinels; handlers use errors.Is
// to map them to status codes. Nothing in between needs to know about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnsupported  = errors.New("unsupported language")
	ErrTooLarge     = errors.New("input too large")
	ErrBlocked      = errors.New("content blocked")
	ErrUnavailable  = errors.New("service unavailable")
)

type AppError struct {
	Err     error  // sentinel this error wraps
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Field:   id,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized covers both invalid credentials and invalid/expired tokens.
// The message is deliberately uniform for login failures so callers cannot
// distinguish unknown-user from wrong-password.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

func UnsupportedLanguage(language string) *AppError {
	return &AppError{
		Err:     ErrUnsupported,
		Message: fmt.Sprintf("Unsupported language: %s", language),
		Field:   "language",
	}
}

func TooLarge(field, message string) *AppError {
	return &AppError{
		Err:     ErrTooLarge,
		Message: message,
		Field:   field,
	}
}

func Blocked(message string) *AppError {
	return &AppError{
		Err:     ErrBlocked,
		Message: message,
	}
}

func Unavailable(message string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: message,
	}
}
