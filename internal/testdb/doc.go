// Package testdb provides migrated databases for tests.
//
// OpenSQLite gives every test its own file-backed SQLite database and needs
// nothing from the environment. OpenPostgres connects to the server named by
// DATABASE_URL (or PERSONA_TEST_DB_URL) and skips the test when neither is
// set. Both apply the embedded migrations before returning.
//
// Typical use:
//
//	func TestListPersons(t *testing.T) {
//	    h := testdb.OpenSQLite(t)
//	    s := sqlstore.NewPersonStore(h.DB, h.Driver, nil)
//	    ...
//	}
//
// WithTx runs a function inside a transaction that is always rolled back,
// which keeps PostgreSQL tests isolated from each other.
package testdb
