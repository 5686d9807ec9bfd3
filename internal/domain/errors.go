package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can decide how to react.
type ErrorKind string

const (
	// KindAuth means the credentials are missing or were rejected.
	KindAuth ErrorKind = "auth"
	// KindTransport covers network failures and provider errors.
	KindTransport ErrorKind = "transport"
	// KindRedirect means the requested resource has moved.
	KindRedirect ErrorKind = "redirect"
	// KindCountMissing means a count query returned no total_count.
	KindCountMissing ErrorKind = "count_missing"
	// KindValidation means the caller supplied unusable input.
	KindValidation ErrorKind = "validation"
)

// Error is a classified error that keeps the original cause.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError builds a classified error.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Validationf is shorthand for a validation error with a formatted message.
func Validationf(op, format string, args ...any) *Error {
	return NewError(KindValidation, op, fmt.Errorf(format, args...))
}
