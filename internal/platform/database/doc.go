// Package database owns the lifecycle of the single shared database handle.
//
// A Manager creates the handle lazily on first Acquire, guarantees that
// concurrent callers share one connection attempt and observe the same
// outcome, and tears the handle down on Close so a later Acquire can
// reconnect. Connectors open the handle for a given URL; the SQL connector
// understands postgres:// URLs (pgx) and sqlite: URLs (modernc.org/sqlite).
package database
