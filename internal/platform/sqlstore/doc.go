// Package sqlstore implements the store interfaces on database/sql.
//
// Statements are written once with '?' placeholders and rebound for the
// connected dialect, so the same store serves both PostgreSQL (pgx) and
// SQLite (modernc.org/sqlite). Driver errors are mapped onto the store
// package's sentinel errors by MapError.
package sqlstore
