// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed data-access operation. Every failure that
// crosses the worker/UI boundary carries exactly one kind.
type ErrorKind int

// Possible error kinds
const (
	KindUnknown ErrorKind = iota
	KindConfigMissing
	KindConnectFailure
	KindQueryFailure
	KindWriteFailure
)

// String returns the kind name used in logs and error messages.
func (k ErrorKind) String() string {
	switch k {
	case KindConfigMissing:
		return "config_missing"
	case KindConnectFailure:
		return "connect_failure"
	case KindQueryFailure:
		return "query_failure"
	case KindWriteFailure:
		return "write_failure"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per ErrorKind. Errors returned by the data-access
// layer match exactly one of these with errors.Is.
var (
	// ErrConfigMissing is returned when the configuration source is absent,
	// unreadable, or lacks a required key.
	ErrConfigMissing = errors.New("configuration missing")

	// ErrConnectFailure is returned when the database connection cannot be
	// established.
	ErrConnectFailure = errors.New("connect failure")

	// ErrQueryFailure is returned when a read statement fails.
	ErrQueryFailure = errors.New("query failure")

	// ErrWriteFailure is returned when a write statement fails or affects
	// no rows where one was expected.
	ErrWriteFailure = errors.New("write failure")
)

// Validation errors
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	ErrEmptyFirstName  = fmt.Errorf("%w: first name cannot be empty", ErrValidation)
	ErrEmptyLastName   = fmt.Errorf("%w: last name cannot be empty", ErrValidation)
	ErrIDAlreadySet    = fmt.Errorf("%w: person already has an identifier", ErrValidation)
	ErrInvalidPersonID = fmt.Errorf("%w: person identifier must be positive", ErrValidation)
)

// sentinel returns the sentinel error matching the kind, or nil.
func (k ErrorKind) sentinel() error {
	switch k {
	case KindConfigMissing:
		return ErrConfigMissing
	case KindConnectFailure:
		return ErrConnectFailure
	case KindQueryFailure:
		return ErrQueryFailure
	case KindWriteFailure:
		return ErrWriteFailure
	default:
		return nil
	}
}

// OpError records the operation that failed, its kind, and the cause.
type OpError struct {
	Kind ErrorKind // Classification of the failure
	Op   string    // Operation that failed (e.g., "list_all", "acquire")
	Err  error     // Underlying cause, may be nil
}

// Error implements the error interface for OpError.
func (e *OpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s failed (%s)", e.Op, e.Kind)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *OpError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel error for this kind.
func (e *OpError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewOpError creates a new OpError for the given kind, operation and cause.
func NewOpError(kind ErrorKind, op string, err error) *OpError {
	return &OpError{Kind: kind, Op: op, Err: err}
}

// KindOf returns the ErrorKind carried by err. The outermost OpError wins;
// otherwise the first matching sentinel in the chain is used.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}

	switch {
	case errors.Is(err, ErrConfigMissing):
		return KindConfigMissing
	case errors.Is(err, ErrConnectFailure):
		return KindConnectFailure
	case errors.Is(err, ErrQueryFailure):
		return KindQueryFailure
	case errors.Is(err, ErrWriteFailure):
		return KindWriteFailure
	default:
		return KindUnknown
	}
}
