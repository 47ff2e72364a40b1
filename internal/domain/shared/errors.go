package shared

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies domain errors so the transport layer can map them
// to status codes without inspecting messages.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindInvalidState ErrorKind = "invalid_state"
	KindForbidden    ErrorKind = "forbidden"
)

// DomainError is the common error type for all business-rule failures.
type DomainError struct {
	Kind    ErrorKind
	Message string
	// MissingFields carries the human-readable labels of fields that
	// failed a validation profile, in profile order.
	MissingFields []string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with a plain message.
func NewValidationError(message string) *DomainError {
	return &DomainError{Kind: KindValidation, Message: message}
}

// NewMissingFieldsError creates a validation error listing the labels of
// the fields that are missing or invalid.
func NewMissingFieldsError(fields []string) *DomainError {
	return &DomainError{
		Kind:          KindValidation,
		Message:       fmt.Sprintf("data belum lengkap: %s", strings.Join(fields, ", ")),
		MissingFields: fields,
	}
}

// NewNotFoundError creates a not-found error for the given entity and key.
func NewNotFoundError(entity, key string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, key),
	}
}

// NewConflictError creates a conflict error (e.g. optimistic-lock failure).
func NewConflictError(message string) *DomainError {
	return &DomainError{Kind: KindConflict, Message: message}
}

// NewInvalidStateError creates an error for a disallowed status transition.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{
		Kind:    KindInvalidState,
		Message: fmt.Sprintf("invalid status transition from %s to %s", from, to),
	}
}

// KindOf returns the domain error kind, or an empty kind for non-domain errors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// MissingFieldsOf returns the missing-field labels carried by a validation
// error, or nil.
func MissingFieldsOf(err error) []string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.MissingFields
	}
	return nil
}
