// Package apperror defines the domain error taxonomy shared by all layers.
//
// Services return these typed errors; the HTTP layer translates them to
// status codes in one place (handler/writeError). The service layer never
// sees an HTTP status code, and the handler layer never invents error text.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors — the four failure categories the API distinguishes.
//
// Everything else (driver errors, I/O failures) stays untagged and is
// rendered as a generic 500 so internals never leak to clients.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// AppError carries a sentinel category plus a user-safe message.
//
// errors.Is(err, apperror.ErrNotFound) works through any number of
// fmt.Errorf("...: %w", ...) wrappings because Unwrap exposes the sentinel.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // safe to show to the client
	Field   string // optional: field that failed validation
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed returns a 400-category error for a missing or invalid field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized returns a 401-category error.
//
// Used for missing/invalid/expired tokens AND for failed logins. Login
// failures deliberately share one message regardless of whether the email
// was unknown or the password wrong, so responses don't reveal which.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// NotFound returns a 404-category error.
//
// Ownership misses use this too: a job that exists but belongs to another
// user is reported exactly like a job that doesn't exist, so callers can't
// probe for other tenants' record IDs.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// Conflict returns a 409-category error (duplicate email at registration).
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}
