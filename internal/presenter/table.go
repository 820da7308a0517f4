package presenter

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/phrazzld/persona/internal/domain"
	"github.com/phrazzld/persona/internal/task"
	"github.com/phrazzld/persona/internal/ui"
)

// Messages shown to the user.
const (
	MsgFillAllFields   = "Fill in all fields"
	MsgSelectRow       = "Select at least one row"
	MsgAddFailed       = "Could not add the person"
	MsgLoadFailed      = "Could not load the persons"
	MsgClearFailed     = "Could not delete the persons"
	MsgDeleteFailedFmt = "Could not delete %s"
	MsgCleared         = "All persons deleted"
)

// Notifier shows messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Repository is the subset of the asynchronous repository a Table uses.
// *repository.Persons satisfies it.
type Repository interface {
	ListAll() *task.AsyncTask[[]domain.Person]
	Insert(person *domain.Person) *task.AsyncTask[bool]
	DeleteByID(id int64) *task.AsyncTask[bool]
	DeleteAll() *task.AsyncTask[bool]
}

// Table is the persons table model. All methods must be called on the UI
// consumer. Each returns a channel that is closed once the operation's
// continuations have run.
type Table struct {
	repo     Repository
	ui       *ui.Dispatcher
	notify   Notifier
	logger   *slog.Logger
	rows     []domain.Person
	onChange func([]domain.Person)
}

// NewTable creates an empty Table.
func NewTable(repo Repository, d *ui.Dispatcher, notify Notifier, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{
		repo:   repo,
		ui:     d,
		notify: notify,
		logger: logger.With("component", "persons_table"),
	}
}

// OnRowsChanged registers fn to receive the rows after every change.
func (t *Table) OnRowsChanged(fn func([]domain.Person)) {
	t.onChange = fn
}

// Rows returns a copy of the current rows.
func (t *Table) Rows() []domain.Person {
	return slices.Clone(t.rows)
}

// Load replaces the rows with the current table contents.
func (t *Table) Load() <-chan struct{} {
	done := make(chan struct{})
	ui.Then(t.ui, t.repo.ListAll(), func(persons []domain.Person, err error) {
		defer close(done)
		if err != nil {
			t.logger.Error("failed to load persons", "error", err, "kind", domain.KindOf(err).String())
			t.notify.Error(fmt.Sprintf("%s: %v", MsgLoadFailed, err))
			return
		}
		t.setRows(persons)
	})
	return done
}

// Restore discards local changes by reloading from the store.
func (t *Table) Restore() <-chan struct{} {
	return t.Load()
}

// Add validates the form and inserts the person. Invalid input produces a
// warning and no store call.
func (t *Table) Add(form PersonForm) <-chan struct{} {
	done := make(chan struct{})

	person, err := form.Person()
	if err != nil {
		t.logger.Debug("rejected add form", "error", err)
		t.notify.Warn(fmt.Sprintf("%s: %v", MsgFillAllFields, err))
		close(done)
		return done
	}

	ui.Then(t.ui, t.repo.Insert(person), func(ok bool, err error) {
		defer close(done)
		if err != nil || !ok {
			t.logger.Error("failed to add person", "error", err)
			t.notify.Error(fmt.Sprintf("%s: %v", MsgAddFailed, err))
			return
		}
		t.setRows(append(t.rows, *person))
	})
	return done
}

// DeleteSelected deletes each selected person independently. Rows are
// removed as their deletes succeed; each failure is reported by name.
func (t *Table) DeleteSelected(ids []int64) <-chan struct{} {
	done := make(chan struct{})
	if len(ids) == 0 {
		t.notify.Warn(MsgSelectRow)
		close(done)
		return done
	}

	remaining := len(ids)
	for _, id := range ids {
		name := t.nameOf(id)
		ui.Then(t.ui, t.repo.DeleteByID(id), func(ok bool, err error) {
			if err != nil || !ok {
				t.logger.Warn("failed to delete person", "person_id", id, "error", err)
				t.notify.Error(fmt.Sprintf(MsgDeleteFailedFmt, name))
			} else {
				t.setRows(slices.DeleteFunc(t.rows, func(p domain.Person) bool { return p.ID == id }))
			}

			remaining--
			if remaining == 0 {
				close(done)
			}
		})
	}
	return done
}

// Clear deletes every person.
func (t *Table) Clear() <-chan struct{} {
	done := make(chan struct{})
	ui.Then(t.ui, t.repo.DeleteAll(), func(ok bool, err error) {
		defer close(done)
		if err != nil || !ok {
			t.logger.Error("failed to delete all persons", "error", err)
			t.notify.Error(fmt.Sprintf("%s: %v", MsgClearFailed, err))
			return
		}
		t.setRows(nil)
		t.notify.Info(MsgCleared)
	})
	return done
}

// nameOf returns the display name of a loaded row, or "#id".
func (t *Table) nameOf(id int64) string {
	for _, p := range t.rows {
		if p.ID == id {
			return p.FirstName + " " + p.LastName
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (t *Table) setRows(rows []domain.Person) {
	t.rows = rows
	if t.onChange != nil {
		t.onChange(t.Rows())
	}
}
