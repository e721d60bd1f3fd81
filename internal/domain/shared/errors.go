package shared

import (
	"errors"
	"strings"
)

// DomainError represents a domain-level error.
// Code is stable and mapped to an HTTP status at the transport boundary.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on Code so sentinel comparisons survive WithDetails copies
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithDetails returns a copy carrying additional details
func (e *DomainError) WithDetails(details any) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
}

// WithMessage returns a copy with a more specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message, Details: e.Details}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// FieldError describes one invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidationError builds a VALIDATION_ERROR carrying field details
func NewValidationError(fields ...FieldError) *DomainError {
	return ErrValidation.WithDetails(fields)
}

// Common domain errors
var (
	ErrNotFound     = NewDomainError("NOT_FOUND", "Resource not found")
	ErrDuplicate    = NewDomainError("DUPLICATE_ENTRY", "A record with this value already exists")
	ErrForeignKey   = NewDomainError("FOREIGN_KEY_ERROR", "Referenced record does not exist")
	ErrValidation   = NewDomainError("VALIDATION_ERROR", "Validation failed")
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "Authentication required")
	ErrForbidden    = NewDomainError("FORBIDDEN", "Access denied. Insufficient permissions.")
	ErrInternal     = NewDomainError("INTERNAL_ERROR", "An unexpected error occurred")
)

// IsNotFound reports whether err is (or wraps) a not-found domain error,
// including the entity specific *_NOT_FOUND codes.
func IsNotFound(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == ErrNotFound.Code || strings.HasSuffix(de.Code, "_NOT_FOUND")
}

// IsDuplicate reports whether err is a unique-constraint conflict
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// FieldErrors returns the field details of a validation error
func FieldErrors(err error) ([]FieldError, bool) {
	var de *DomainError
	if !errors.As(err, &de) {
		return nil, false
	}
	fields, ok := de.Details.([]FieldError)
	if !ok {
		return nil, false
	}
	return append([]FieldError(nil), fields...), true
}
