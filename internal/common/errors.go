// Package common defines shared constants and sentinel errors used across
// the contactform server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("user is not authenticated")
	ErrorForbidden       = errors.New("user is not authorized")
	ErrorValidation      = errors.New("validation error")

	// Login errors. They are reported to the caller as-is.
	ErrUnknownUsername = errors.New("username does not exist")
	ErrWrongPassword   = errors.New("password is incorrect")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError reports a rejected input field. It matches ErrorValidation
// under errors.Is, and its message is safe to return to the client.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrorValidation }

// NewValidationError returns a *ValidationError with the given reason.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}
