// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the asynchronous repository, allowing it to remain independent of the
// SQL dialect behind the shared connection handle.
package store
