package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// subscription is one registered handler and the ops it wants.
// An empty ops list matches every op.
type subscription struct {
	id      uint64
	handler EventHandler
	ops     []ChangeOp
}

func (s subscription) wants(op ChangeOp) bool {
	return len(s.ops) == 0 || slices.Contains(s.ops, op)
}

// InMemoryEventEmitter delivers events synchronously, on the emitting
// goroutine, to its subscribers in subscription order.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
	logger *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no subscribers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With("component", "persons_events"),
	}
}

// Subscribe registers handler for the given ops, or for every op when none
// are given. The returned function removes the subscription; calling it
// more than once is harmless.
func (e *InMemoryEventEmitter) Subscribe(handler EventHandler, ops ...ChangeOp) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription{id: id, handler: handler, ops: slices.Clone(ops)})
	e.logger.Debug("subscribed to person changes", "subscription", id, "ops", ops)

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.subs = slices.DeleteFunc(e.subs, func(s subscription) bool { return s.id == id })
	}
}

// Subscribers reports how many subscriptions are registered.
func (e *InMemoryEventEmitter) Subscribers() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}

// EmitEvent delivers event to every matching subscriber. A failing or
// panicking handler does not stop delivery to the rest; all failures are
// returned joined.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *PersonsChangedEvent) error {
	e.mu.RLock()
	subs := slices.Clone(e.subs)
	e.mu.RUnlock()

	var errs []error
	delivered := 0
	for _, s := range subs {
		if !s.wants(event.Op) {
			continue
		}
		delivered++
		if err := deliver(ctx, s.handler, event); err != nil {
			e.logger.Error("person change handler failed",
				"error", err,
				"subscription", s.id,
				"event_id", event.ID,
				"op", event.Op)
			errs = append(errs, err)
		}
	}

	e.logger.Debug("emitted person change",
		"event_id", event.ID,
		"op", event.Op,
		"delivered", delivered)
	return errors.Join(errs...)
}

func deliver(ctx context.Context, h EventHandler, event *PersonsChangedEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.HandleEvent(ctx, event)
}
