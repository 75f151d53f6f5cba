// Package apperr defines the error taxonomy shared by every lifecycle
// operation. Callers classify failures with errors.Is against the
// sentinel values; messages carry the human-readable detail.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an absent referenced entity.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized marks an actor that does not own the resource.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict marks an illegal state transition or a restricted
	// field mutated while locked by accepted reservations.
	ErrConflict = errors.New("conflict")
	// ErrCapacityExceeded marks a seat accounting violation.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrDuplicate marks a uniqueness violation.
	ErrDuplicate = errors.New("duplicate")
	// ErrStore marks an underlying store failure.
	ErrStore = errors.New("store error")
)

func wrap(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}

// Validationf formats an error wrapping ErrValidation.
func Validationf(format string, args ...interface{}) error {
	return wrap(ErrValidation, format, args...)
}

// NotFoundf formats an error wrapping ErrNotFound.
func NotFoundf(format string, args ...interface{}) error {
	return wrap(ErrNotFound, format, args...)
}

// Unauthorizedf formats an error wrapping ErrUnauthorized.
func Unauthorizedf(format string, args ...interface{}) error {
	return wrap(ErrUnauthorized, format, args...)
}

// Conflictf formats an error wrapping ErrConflict.
func Conflictf(format string, args ...interface{}) error {
	return wrap(ErrConflict, format, args...)
}

// Capacityf formats an error wrapping ErrCapacityExceeded.
func Capacityf(format string, args ...interface{}) error {
	return wrap(ErrCapacityExceeded, format, args...)
}

// Duplicatef formats an error wrapping ErrDuplicate.
func Duplicatef(format string, args ...interface{}) error {
	return wrap(ErrDuplicate, format, args...)
}

// Storef formats an error wrapping ErrStore.
func Storef(format string, args ...interface{}) error {
	return wrap(ErrStore, format, args...)
}
