package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/persona/internal/domain"
)

// DBTX abstracts the handle a store runs its statements on.
// It is implemented by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PersonStore defines the blocking persistence operations on the persons
// table. Each call executes exactly one statement in autocommit mode.
type PersonStore interface {
	// List returns every person in store order.
	List(ctx context.Context) ([]domain.Person, error)

	// Get retrieves a person by identifier.
	// Returns ErrPersonNotFound if no row matches.
	Get(ctx context.Context, id int64) (*domain.Person, error)

	// Create inserts an unsaved person and back-fills its ID with the
	// store-generated value.
	// Returns ErrInvalidEntity if the person already has an ID or fails
	// domain validation.
	Create(ctx context.Context, person *domain.Person) error

	// Delete removes the person with the given identifier.
	// Returns ErrPersonNotFound if no row was removed.
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes every person and reports how many rows went.
	DeleteAll(ctx context.Context) (int64, error)
}
