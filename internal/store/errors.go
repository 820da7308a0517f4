package store

import (
	"errors"
	"fmt"
)

// Sentinels returned, wrapped in a StoreError, by PersonStore
// implementations. Callers match them with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicate      = errors.New("duplicate key")
	ErrInvalidEntity  = errors.New("invalid entity")
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrPersonNotFound is ErrNotFound for the persons table.
	ErrPersonNotFound = fmt.Errorf("person %w", ErrNotFound)
)

// StoreError names the statement that failed.
type StoreError struct {
	Entity string // table entity, e.g. "person"
	Op     string // store method, e.g. "create"
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Entity, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err for the given entity and store method.
func NewStoreError(entity, op string, err error) *StoreError {
	return &StoreError{Entity: entity, Op: op, Err: err}
}
