package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/persona/internal/domain"
	"github.com/phrazzld/persona/internal/events"
	"github.com/phrazzld/persona/internal/platform/database"
	"github.com/phrazzld/persona/internal/platform/logger"
	"github.com/phrazzld/persona/internal/platform/sqlstore"
	"github.com/phrazzld/persona/internal/store"
	"github.com/phrazzld/persona/internal/task"
)

// Task types used in executor logs.
const (
	TaskListAll    = "persons.list_all"
	TaskGetByID    = "persons.get_by_id"
	TaskInsert     = "persons.insert"
	TaskDeleteByID = "persons.delete_by_id"
	TaskDeleteAll  = "persons.delete_all"
)

// HandleSource hands out the shared database handle.
// *database.Manager satisfies it.
type HandleSource interface {
	Acquire(ctx context.Context) (*database.Handle, error)
}

// StoreFactory builds a PersonStore bound to a handle.
type StoreFactory func(h *database.Handle, logger *slog.Logger) store.PersonStore

// SQLStores is the default StoreFactory.
func SQLStores(h *database.Handle, logger *slog.Logger) store.PersonStore {
	return sqlstore.NewPersonStore(h.DB, h.Driver, logger)
}

// Persons is the asynchronous repository over the persons table.
type Persons struct {
	conns    HandleSource
	exec     *task.Executor
	newStore StoreFactory
	emitter  events.EventEmitter
	logger   *slog.Logger
}

// NewPersons creates a Persons repository. emitter may be nil when nobody
// needs change notifications.
func NewPersons(
	conns HandleSource,
	exec *task.Executor,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *Persons {
	if logger == nil {
		logger = slog.Default()
	}
	return &Persons{
		conns:    conns,
		exec:     exec,
		newStore: SQLStores,
		emitter:  emitter,
		logger:   logger.With("component", "persons_repository"),
	}
}

// SetStoreFactory replaces how stores are bound to the shared handle.
// Call it before submitting any operation.
func (r *Persons) SetStoreFactory(f StoreFactory) {
	r.newStore = f
}

// ListAll returns every person in store order.
func (r *Persons) ListAll() *task.AsyncTask[[]domain.Person] {
	return submit(r, TaskListAll, domain.KindQueryFailure, "list_all", func(ctx context.Context) ([]domain.Person, error) {
		s, err := r.store(ctx)
		if err != nil {
			return nil, err
		}

		persons, err := s.List(ctx)
		if err != nil {
			return nil, convert(domain.KindQueryFailure, "list_all", err)
		}
		return persons, nil
	})
}

// GetByID returns the person with the given id, or nil when no row matches.
func (r *Persons) GetByID(id int64) *task.AsyncTask[*domain.Person] {
	return submit(r, TaskGetByID, domain.KindQueryFailure, "get_by_id", func(ctx context.Context) (*domain.Person, error) {
		s, err := r.store(ctx)
		if err != nil {
			return nil, err
		}

		p, err := s.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, convert(domain.KindQueryFailure, "get_by_id", err)
		}
		return p, nil
	})
}

// Insert stores an unsaved person. On success the task yields true and
// person.ID holds the generated identifier; read it only after completion.
func (r *Persons) Insert(person *domain.Person) *task.AsyncTask[bool] {
	return submit(r, TaskInsert, domain.KindWriteFailure, "insert", func(ctx context.Context) (bool, error) {
		s, err := r.store(ctx)
		if err != nil {
			return false, err
		}

		if err := s.Create(ctx, person); err != nil {
			return false, convert(domain.KindWriteFailure, "insert", err)
		}
		r.emit(ctx, events.NewPersonsChangedEvent(events.OpInserted, person.ID, 1))
		return true, nil
	})
}

// DeleteByID removes the person with the given id. Deleting a row that does
// not exist fails with write_failure.
func (r *Persons) DeleteByID(id int64) *task.AsyncTask[bool] {
	return submit(r, TaskDeleteByID, domain.KindWriteFailure, "delete_by_id", func(ctx context.Context) (bool, error) {
		s, err := r.store(ctx)
		if err != nil {
			return false, err
		}

		if err := s.Delete(ctx, id); err != nil {
			return false, convert(domain.KindWriteFailure, "delete_by_id", err)
		}
		r.emit(ctx, events.NewPersonsChangedEvent(events.OpDeleted, id, 1))
		return true, nil
	})
}

// DeleteAll removes every person. It succeeds even when the table is empty.
func (r *Persons) DeleteAll() *task.AsyncTask[bool] {
	return submit(r, TaskDeleteAll, domain.KindWriteFailure, "delete_all", func(ctx context.Context) (bool, error) {
		s, err := r.store(ctx)
		if err != nil {
			return false, err
		}

		n, err := s.DeleteAll(ctx)
		if err != nil {
			return false, convert(domain.KindWriteFailure, "delete_all", err)
		}
		r.emit(ctx, events.NewPersonsChangedEvent(events.OpDeletedAll, 0, n))
		return true, nil
	})
}

// submit runs work on the executor. A panic inside work fails the task
// with the operation's kind, wrapping task.ErrTaskPanicked.
func submit[T any](r *Persons, typ string, kind domain.ErrorKind, op string, work task.Work[T]) *task.AsyncTask[T] {
	return task.Submit(r.exec, typ, func(ctx context.Context) (v T, err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.FromContextOrDefault(ctx, r.logger).Error("persons operation panicked",
					"op", op,
					"panic", fmt.Sprint(p))
				var zero T
				v, err = zero, domain.NewOpError(kind, op, fmt.Errorf("%w: %v", task.ErrTaskPanicked, p))
			}
		}()
		return work(ctx)
	})
}

// store acquires the shared handle and binds a PersonStore to it.
// Manager errors already carry their kind and are returned as is.
func (r *Persons) store(ctx context.Context) (store.PersonStore, error) {
	h, err := r.conns.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return r.newStore(h, logger.FromContextOrDefault(ctx, r.logger)), nil
}

// emit publishes a change. Handler failures are logged and never fail the
// operation that already committed.
func (r *Persons) emit(ctx context.Context, event *events.PersonsChangedEvent) {
	if r.emitter == nil {
		return
	}
	if err := r.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Warn("persons change handler failed",
			"event_id", event.ID,
			"op", event.Op,
			"error", err)
	}
}

// convert classifies a worker-side error. Errors that already carry
// config_missing or connect_failure keep their kind.
func convert(kind domain.ErrorKind, op string, err error) error {
	switch domain.KindOf(err) {
	case domain.KindConfigMissing, domain.KindConnectFailure:
		return err
	}
	return domain.NewOpError(kind, op, err)
}
