package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/persona/internal/platform/database"
	"github.com/phrazzld/persona/internal/platform/logger"
	"github.com/phrazzld/persona/internal/platform/migrations"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// GetTestDatabaseURL returns the PostgreSQL URL for integration tests.
// It checks DATABASE_URL and PERSONA_TEST_DB_URL in that order.
func GetTestDatabaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	return os.Getenv("PERSONA_TEST_DB_URL")
}

// IsIntegrationTestEnvironment reports whether a PostgreSQL server is
// configured for tests.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// SQLiteURL returns a sqlite: URL for a fresh database file in a temporary
// directory owned by t.
func SQLiteURL(t *testing.T) string {
	t.Helper()
	return "sqlite:" + filepath.Join(t.TempDir(), "persons.db")
}

// OpenSQLite opens a migrated SQLite database limited to one connection.
// The handle is closed when the test ends.
func OpenSQLite(t *testing.T) *database.Handle {
	t.Helper()
	return open(t, database.Settings{URL: SQLiteURL(t), MaxOpenConns: 1})
}

// OpenPostgres opens a migrated PostgreSQL database, or skips the test when
// no server is configured.
func OpenPostgres(t *testing.T) *database.Handle {
	t.Helper()
	if !IsIntegrationTestEnvironment() {
		t.Skip("DATABASE_URL not set - skipping PostgreSQL integration test")
	}
	return open(t, database.Settings{URL: GetTestDatabaseURL(), MaxOpenConns: 4})
}

// Migrate applies the embedded migrations to an open handle.
func Migrate(t *testing.T, h *database.Handle) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	_, err := migrations.Up(ctx, h.DB, h.Driver, logger.Discard())
	require.NoError(t, err, "Failed to run migrations")
}

func open(t *testing.T, s database.Settings) *database.Handle {
	t.Helper()

	s.ConnectTimeout = TestTimeout
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	h, err := database.SQLConnector{Logger: logger.Discard()}.Connect(ctx, s)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { _ = h.Close() })

	Migrate(t, h)
	return h
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		// sql.ErrTxDone is expected if fn already ended the transaction
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
