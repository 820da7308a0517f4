// Package task runs blocking work off the UI consumer.
//
// An Executor owns a fixed pool of worker goroutines fed by an unbounded
// FIFO queue. Submit never blocks: it returns an *AsyncTask immediately, and
// the task moves Pending -> Running -> Completed or Failed on one worker.
// Completion hooks registered with OnComplete run exactly once on the
// goroutine that finished the task.
//
// Submitted work has no cancellation or deadline. The queue has no capacity
// limit, so a producer that outpaces the workers grows it without bound.
package task
