package events

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/persona/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventEmitter(t *testing.T) {
	ctx := context.Background()

	t.Run("no subscribers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger.Discard())
		assert.NoError(t, emitter.EmitEvent(ctx, NewPersonsChangedEvent(OpInserted, 1, 1)))
	})

	t.Run("every subscriber receives the event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger.Discard())

		h1, h2 := &MockEventHandler{}, &MockEventHandler{}
		emitter.Subscribe(h1)
		emitter.Subscribe(h2)

		event := NewPersonsChangedEvent(OpInserted, 5, 1)
		require.NoError(t, emitter.EmitEvent(ctx, event))

		assert.Equal(t, 1, h1.HandledCount)
		assert.Same(t, event, h2.LastEvent)
	})

	t.Run("subscription order", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger.Discard())

		var order []string
		emitter.Subscribe(HandlerFunc(func(context.Context, *PersonsChangedEvent) error {
			order = append(order, "first")
			return nil
		}))
		emitter.Subscribe(HandlerFunc(func(context.Context, *PersonsChangedEvent) error {
			order = append(order, "second")
			return nil
		}))

		require.NoError(t, emitter.EmitEvent(ctx, NewPersonsChangedEvent(OpDeletedAll, 0, 2)))
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("op filter", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger.Discard())

		deletes := &MockEventHandler{}
		emitter.Subscribe(deletes, OpDeleted, OpDeletedAll)

		require.NoError(t, emitter.EmitEvent(ctx, NewPersonsChangedEvent(OpInserted, 1, 1)))
		require.NoError(t, emitter.EmitEvent(ctx, NewPersonsChangedEvent(OpDeleted, 1, 1)))
		assert.Equal(t, 1, deletes.HandledCount)
		assert.Equal(t, OpDeleted, deletes.LastEvent.Op)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger.Discard())

		h := &MockEventHandler{}
		unsubscribe := emitter.Subscribe(h)
		emitter.Subscribe(&MockEventHandler{})
		unsubscribe()
		unsubscribe()

		assert.Equal(t, 1, emitter.Subscribers())
		require.NoError(t, emitter.EmitEvent(ctx, NewPersonsChangedEvent(OpInserted, 1, 1)))
		assert.Zero(t, h.HandledCount)
	})

	t.Run("failures are joined and do not stop delivery", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger.Discard())

		errA := errors.New("handler a")
		ok := &MockEventHandler{}
		emitter.Subscribe(&MockEventHandler{HandlerError: errA})
		emitter.Subscribe(HandlerFunc(func(context.Context, *PersonsChangedEvent) error {
			panic("boom")
		}))
		emitter.Subscribe(ok)

		err := emitter.EmitEvent(ctx, NewPersonsChangedEvent(OpDeleted, 9, 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, errA)
		assert.Contains(t, err.Error(), "handler panicked: boom")
		assert.Equal(t, 1, ok.HandledCount)
	})
}
