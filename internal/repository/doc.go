// Package repository exposes non-blocking CRUD on the persons table.
//
// Every Persons operation submits one closure to the task executor and
// returns its *task.AsyncTask immediately. On a worker the closure acquires
// the shared handle from the connection manager, runs exactly one statement
// in autocommit mode and converts the outcome. Errors leaving this package
// always carry a domain.ErrorKind: connection-manager failures
// (config_missing, connect_failure) pass through unchanged, reads fail with
// query_failure and writes with write_failure.
package repository
