package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChangeOp names the mutation behind a PersonsChangedEvent.
type ChangeOp string

// Possible change operations
const (
	OpInserted   ChangeOp = "inserted"
	OpDeleted    ChangeOp = "deleted"
	OpDeletedAll ChangeOp = "deleted_all"
)

// PersonsChangedEvent reports one successful mutation of the persons table.
type PersonsChangedEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Op ChangeOp `json:"op"`

	// PersonID is the affected row; zero for OpDeletedAll.
	PersonID int64 `json:"person_id,omitempty"`

	// Rows is the number of rows the mutation touched.
	Rows int64 `json:"rows"`

	// At is the timestamp when the change was observed
	At time.Time `json:"at"`
}

// NewPersonsChangedEvent creates an event stamped with a fresh ID and the
// current time.
func NewPersonsChangedEvent(op ChangeOp, personID, rows int64) *PersonsChangedEvent {
	return &PersonsChangedEvent{
		ID:       uuid.New(),
		Op:       op,
		PersonID: personID,
		Rows:     rows,
		At:       time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *PersonsChangedEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *PersonsChangedEvent) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *PersonsChangedEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the repository to publish changes without knowing who listens.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *PersonsChangedEvent) error
}
