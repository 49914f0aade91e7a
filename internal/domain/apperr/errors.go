// Package apperr defines the domain error taxonomy. Handlers match these
// with errors.Is / errors.As and translate them into user-visible flash
// messages; anything else is treated as an internal fault.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned for both unknown identity and wrong
	// password, so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNotFound      = errors.New("not found")
	ErrNotAuthorized = errors.New("not authorized")

	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventNotPublished = errors.New("event is not open for registration")
	ErrNotRegistered     = errors.New("not registered for this event")
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validation builds a ValidationError for a single field.
func Validation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ConflictError marks a uniqueness violation on a user-supplied identity.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q is already taken", e.Field, e.Value)
}

// Conflict builds a ConflictError.
func Conflict(field, value string) *ConflictError {
	return &ConflictError{Field: field, Value: value}
}

// IsDomain reports whether err belongs to the domain taxonomy, i.e. it is
// safe to show its message to the end user.
func IsDomain(err error) bool {
	var ve *ValidationError
	var ce *ConflictError
	switch {
	case errors.As(err, &ve), errors.As(err, &ce):
		return true
	}
	for _, target := range []error{
		ErrInvalidCredentials,
		ErrNotFound,
		ErrNotAuthorized,
		ErrEventFull,
		ErrAlreadyRegistered,
		ErrEventNotPublished,
		ErrNotRegistered,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
