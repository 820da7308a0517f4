package ui

import (
	"log/slog"

	"github.com/phrazzld/persona/internal/task"
)

// Loop accepts functions to run on the UI consumer, in posting order.
type Loop interface {
	Post(fn func())
}

// Dispatcher schedules work on a Loop.
type Dispatcher struct {
	loop   Loop
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher posting to loop.
func NewDispatcher(loop Loop, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		loop:   loop,
		logger: logger.With("component", "ui_dispatcher"),
	}
}

// RunOnUI enqueues fn on the UI consumer. It never runs fn inline.
func (d *Dispatcher) RunOnUI(fn func()) {
	d.loop.Post(fn)
}

// Then dispatches fn with t's terminal value and error to the UI consumer,
// exactly once, when t completes. Continuations are dispatched in the order
// their tasks complete.
func Then[T any](d *Dispatcher, t *task.AsyncTask[T], fn func(T, error)) {
	t.OnComplete(func(v T, err error) {
		if err != nil {
			d.logger.Debug("dispatching failed task result",
				"task_id", t.ID(),
				"task_type", t.Type(),
				"error", err)
		}
		d.RunOnUI(func() { fn(v, err) })
	})
}
