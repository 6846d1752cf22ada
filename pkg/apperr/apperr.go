// Package apperr defines the three error categories the service layer is
// allowed to return: validation errors, not-found conditions, and wrapped
// internal failures. Handlers and the console map on these with errors.Is
// and errors.As; nothing below the service layer crosses that boundary raw.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks errors caused by the caller's input: blank
	// required fields, bad formats, duplicate unique keys, or a referenced
	// entity that does not exist at creation time.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks reads, updates and deletes that targeted an id
	// which does not resolve. For reads this is the empty result, not a
	// system failure.
	ErrNotFound = errors.New("not found")

	// ErrInternal marks unexpected storage failures unrelated to the
	// caller's input. The cause is preserved via wrapping.
	ErrInternal = errors.New("operation failed")
)

// ValidationError carries field-level messages in the same shape the
// request validator produces, so handlers can respond uniformly.
// Conflict marks duplicate-unique-key violations; the HTTP layer answers
// those with 409 instead of 400.
type ValidationError struct {
	Fields   map[string][]string
	Conflict bool
}

func (e *ValidationError) Error() string {
	for f, msgs := range e.Fields {
		if len(msgs) > 0 {
			return fmt.Sprintf("%s: %s", f, msgs[0])
		}
	}
	return "validation failed"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation builds a single-field validation error.
func Validation(field, msg string) error {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

// ValidationMap wraps a field->messages map produced by the validator.
func ValidationMap(fields map[string][]string) error {
	return &ValidationError{Fields: fields}
}

// Duplicate builds a validation error for a unique-key collision.
func Duplicate(field, msg string) error {
	return &ValidationError{Fields: map[string][]string{field: {msg}}, Conflict: true}
}

// NotFound builds an entity-qualified not-found error.
func NotFound(entity string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, entity)
}

// Internal wraps an unexpected storage error, keeping the cause.
func Internal(err error) error {
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

// IsValidation reports whether err belongs to the validation category.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err belongs to the not-found category.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
