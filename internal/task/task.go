package task

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// IsTerminal reports whether the status is Completed or Failed.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Common task errors
var (
	// ErrExecutorClosed fails tasks submitted after Close, and queued tasks
	// discarded by a Close that does not drain.
	ErrExecutorClosed = errors.New("executor is closed")

	// ErrTaskPanicked wraps the value recovered from a panicking work item.
	ErrTaskPanicked = errors.New("task panicked")

	// ErrTaskPending is returned by Result before the task has finished.
	ErrTaskPending = errors.New("task has not finished")
)

// Work is a blocking unit of work producing a value of type T.
type Work[T any] func(ctx context.Context) (T, error)

// runnable is the type-erased view of a task that the executor schedules.
type runnable interface {
	ID() uuid.UUID
	Type() string
	execute(ctx context.Context) error
	fail(err error)
	notify(onPanic func(any))
}

// AsyncTask is the handle to one submitted unit of work. Terminal states
// are immutable and reached exactly once.
type AsyncTask[T any] struct {
	id   uuid.UUID
	typ  string
	work Work[T]
	done chan struct{}

	mu     sync.Mutex
	status TaskStatus
	value  T
	err    error
	hooks  []func(T, error)

	// ready holds the hooks captured at completion until notify runs them.
	ready []func(T, error)
}

func newAsyncTask[T any](typ string, work Work[T]) *AsyncTask[T] {
	return &AsyncTask[T]{
		id:     uuid.New(),
		typ:    typ,
		work:   work,
		done:   make(chan struct{}),
		status: TaskStatusPending,
	}
}

// ID returns the task's unique identifier
func (t *AsyncTask[T]) ID() uuid.UUID { return t.id }

// Type returns the task type used in logs.
func (t *AsyncTask[T]) Type() string { return t.typ }

// Status returns the current task status
func (t *AsyncTask[T]) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Done returns a channel that is closed once the task is terminal.
func (t *AsyncTask[T]) Done() <-chan struct{} { return t.done }

// Result returns the terminal value and error. Before completion it
// returns ErrTaskPending.
func (t *AsyncTask[T]) Result() (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.status.IsTerminal() {
		var zero T
		return zero, ErrTaskPending
	}
	return t.value, t.err
}

// Wait blocks until the task is terminal or ctx is done.
func (t *AsyncTask[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete registers fn to receive the terminal value and error. Hooks
// run in registration order on the goroutine that completes the task; if
// the task is already terminal, fn runs immediately on the caller.
func (t *AsyncTask[T]) OnComplete(fn func(T, error)) {
	t.mu.Lock()
	if !t.status.IsTerminal() {
		t.hooks = append(t.hooks, fn)
		t.mu.Unlock()
		return
	}
	v, err := t.value, t.err
	t.mu.Unlock()

	fn(v, err)
}

// execute moves a pending task to Running, executes the work and records
// the outcome. Registered hooks are held until notify, so the caller can
// account for the outcome first.
func (t *AsyncTask[T]) execute(ctx context.Context) error {
	t.mu.Lock()
	if t.status != TaskStatusPending {
		t.mu.Unlock()
		return nil
	}
	t.status = TaskStatusRunning
	t.mu.Unlock()

	v, err := t.call(ctx)
	t.complete(v, err)
	return err
}

func (t *AsyncTask[T]) call(ctx context.Context) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return t.work(ctx)
}

// fail completes a task that never ran. Like execute, it leaves the hooks
// to notify.
func (t *AsyncTask[T]) fail(err error) {
	var zero T
	t.complete(zero, err)
}

func (t *AsyncTask[T]) complete(v T, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsTerminal() {
		return
	}
	t.value, t.err = v, err
	if err != nil {
		t.status = TaskStatusFailed
	} else {
		t.status = TaskStatusCompleted
	}
	t.ready = t.hooks
	t.hooks = nil
	close(t.done)
}

// notify runs the hooks captured at completion, once. Each hook runs on its
// own: a panicking hook is reported to onPanic and the rest still run.
func (t *AsyncTask[T]) notify(onPanic func(any)) {
	t.mu.Lock()
	hooks := t.ready
	t.ready = nil
	v, err := t.value, t.err
	t.mu.Unlock()

	for _, fn := range hooks {
		callHook(fn, v, err, onPanic)
	}
}

func callHook[T any](fn func(T, error), v T, err error, onPanic func(any)) {
	defer func() {
		if p := recover(); p != nil && onPanic != nil {
			onPanic(p)
		}
	}()
	fn(v, err)
}
