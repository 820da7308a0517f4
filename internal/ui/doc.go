// Package ui marshals task results back onto the single UI consumer.
//
// A Loop is whatever owns the UI goroutine; it only has to run posted
// functions one at a time in the order they were posted. QueueLoop is a
// plain implementation used by the CLI and tests. A Dispatcher never runs a
// function inline, even when called from the consumer itself, so a
// continuation always observes UI state after the current callback returns.
package ui
