// Package events announces changes to the persons table.
//
// Person is a plain value with no observable fields, so anything that
// caches rows (a table presenter, a CLI refresh) subscribes to an
// EventEmitter and reloads when a PersonsChangedEvent arrives. Events are
// emitted synchronously on the goroutine that performed the change; a
// handler that touches UI state must hop to the UI consumer itself.
package events
