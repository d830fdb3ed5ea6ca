package errors

import (
	"errors"
)

// InvariantError is a field-level domain rule violation, e.g. "cpf: invalid_length".
// Base, when set, is the sentinel the violation wraps.
type InvariantError struct {
	Base   error
	Field  string
	Reason string
}

func (e InvariantError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Unwrap supports errors.Is / errors.As against Base.
func (e InvariantError) Unwrap() error {
	return e.Base
}

// DomainInvariant creates a field-level invariant error.
func DomainInvariant(field, reason string) error {
	return InvariantError{Field: field, Reason: reason}
}

// DomainInvariantOf is DomainInvariant wrapping a sentinel, so callers can
// match it with errors.Is.
func DomainInvariantOf(base error, field, reason string) error {
	return InvariantError{Base: base, Field: field, Reason: reason}
}

// IsInvariant reports whether err is or wraps an InvariantError.
func IsInvariant(err error) bool {
	var ie InvariantError
	return errors.As(err, &ie)
}
