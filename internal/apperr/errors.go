// Package apperr defines the error kinds shared by the request pipeline and
// the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write would violate a uniqueness rule.
var ErrConflict = errors.New("conflict")

// ConflictError carries a caller facing message and matches ErrConflict.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Conflict builds a ConflictError.
func Conflict(message string) error {
	return &ConflictError{Message: message}
}

// ValidationError reports a missing or malformed required input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// Invalid builds a ValidationError for field with a caller facing message.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ProviderError is a vendor failure captured at the adapter boundary.
type ProviderError struct {
	Provider string
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return e.Message
	}
	return e.Provider + ": " + e.Message
}

// ParseError is raised when model output cannot be read as structured data.
// It is recovered locally and never reaches a caller.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "parse: " + e.Reason + ": " + e.Err.Error()
	}
	return "parse: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExhaustionError means every provider in a chain failed. Message is the
// user facing text, already localized.
type ExhaustionError struct {
	Message  string
	Failures []error
}

func (e *ExhaustionError) Error() string {
	if len(e.Failures) == 0 {
		return "all providers failed"
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

func (e *ExhaustionError) Unwrap() []error { return e.Failures }
