package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// QueueLoop is a single-consumer FIFO Loop. Post may be called from any
// goroutine; Run executes posted functions on the goroutine that calls it.
type QueueLoop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []func()
	stopped bool
	logger  *slog.Logger
}

// NewQueueLoop creates an idle QueueLoop.
func NewQueueLoop(logger *slog.Logger) *QueueLoop {
	if logger == nil {
		logger = slog.Default()
	}
	l := &QueueLoop{logger: logger.With("component", "ui_loop")}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Post appends fn to the queue. Functions posted after Stop are dropped.
func (l *QueueLoop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		l.logger.Warn("dropping function posted after stop")
		return
	}
	l.items = append(l.items, fn)
	l.cond.Signal()
}

// Stop asks Run to return once everything posted so far has run.
func (l *QueueLoop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	l.cond.Broadcast()
}

// Run executes posted functions until Stop has been called and the queue is
// empty, or ctx is done. A panicking function is logged and the loop
// continues.
func (l *QueueLoop) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.cond.Broadcast()
	})
	defer stop()

	for {
		fn, ok := l.next(ctx)
		if !ok {
			return ctx.Err()
		}
		l.invoke(fn)
	}
}

// next blocks for the next function. ok is false when Run should return.
func (l *QueueLoop) next(ctx context.Context) (fn func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for len(l.items) == 0 && !l.stopped && ctx.Err() == nil {
		l.cond.Wait()
	}
	if ctx.Err() != nil || len(l.items) == 0 {
		return nil, false
	}

	fn = l.items[0]
	l.items[0] = nil
	l.items = l.items[1:]
	return fn, true
}

func (l *QueueLoop) invoke(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			l.logger.Error("ui callback panicked", "panic", fmt.Sprint(p))
		}
	}()
	fn()
}

// Pending reports how many functions are waiting to run.
func (l *QueueLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
