package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates bad caller input (URL, date, missing field).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an operation targeted a nonexistent record.
	ErrNotFound = errors.New("record not found")

	// ErrStoreCorrupt indicates the persisted document could not be parsed.
	// The store recovers from it locally and never returns it to callers.
	ErrStoreCorrupt = errors.New("store corrupted")

	// ErrStoreIO indicates a durable read or write failed.
	ErrStoreIO = errors.New("store i/o failure")
)

// ValidationError echoes the offending input back to the caller.
type ValidationError struct {
	Field  string
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Input, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Invalid builds a ValidationError.
func Invalid(field, input, reason string) error {
	return &ValidationError{Field: field, Input: input, Reason: reason}
}
