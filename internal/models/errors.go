package models

import (
	"github.com/nyaya-ai/nyaya/internal/errors"
)

var (
	// ErrValidation marks input that is missing or malformed. It is detected through [ValidationError] as well.
	ErrValidation = errors.NewSentinel("validation failed")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrVersionConflict is returned when a draft was modified since the caller last read it.
	ErrVersionConflict = errors.NewSentinel("version conflict")
	// ErrInvalidTransition is returned when an officer action is not allowed from the current prediction state.
	ErrInvalidTransition = errors.NewSentinel("invalid transition")
	// ErrPersistence marks a failed write to the record store. The caller may retry.
	ErrPersistence = errors.NewSentinel("persistence failed")
	// ErrInvalidCredentials is returned when the badge number or password doesn't match.
	ErrInvalidCredentials = errors.NewSentinel("invalid credentials")
)

// ValidationError names the offending field of a rejected input.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError returns a [ValidationError] that matches [ErrValidation] with errors.Is.
func NewValidationError(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation //nolint:errorlint // sentinel identity
}
