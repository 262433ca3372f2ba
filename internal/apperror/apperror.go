// Package apperror defines the error taxonomy shared by services and handlers.
//
// Services return *AppError values wrapping one of the sentinels below; handlers
// pick the HTTP response with errors.Is. Field validation problems are not
// errors at all: they travel back to the caller as a []FieldError so a form can
// attach each message to its input.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("not authenticated")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrForbidden    = errors.New("forbidden")
	ErrTransient    = errors.New("temporarily unavailable")
)

type AppError struct {
	Err     error  // sentinel
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying driver error
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// FieldError is one entry of a validation result.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "not authenticated",
	}
}

func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Transient wraps a conflict that survived the retry budget.
func Transient(cause error) *AppError {
	return &AppError{
		Err:     ErrTransient,
		Message: fmt.Sprintf("temporarily unavailable: %v", cause),
		Cause:   cause,
	}
}

// Fields converts a validation AppError into the list form returned to clients.
func Fields(err error) ([]FieldError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) && errors.Is(appErr.Err, ErrValidation) {
		return []FieldError{{Field: appErr.Field, Message: appErr.Message}}, true
	}
	return nil, false
}
