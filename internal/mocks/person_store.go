package mocks

import (
	"context"
	"slices"
	"sync"

	"github.com/phrazzld/persona/internal/domain"
	"github.com/phrazzld/persona/internal/store"
)

// MockPersonStore implements store.PersonStore for testing
type MockPersonStore struct {
	// Function fields for customizable behavior
	ListFn      func(ctx context.Context) ([]domain.Person, error)
	GetFn       func(ctx context.Context, id int64) (*domain.Person, error)
	CreateFn    func(ctx context.Context, person *domain.Person) error
	DeleteFn    func(ctx context.Context, id int64) error
	DeleteAllFn func(ctx context.Context) (int64, error)

	mu     sync.Mutex
	nextID int64
	// Persons holds the default implementation's rows in insertion order.
	Persons []domain.Person
	// Calls counts invocations per method name.
	Calls map[string]int
}

// NewMockPersonStore creates a new mock store with initialized defaults
func NewMockPersonStore() *MockPersonStore {
	return &MockPersonStore{Calls: make(map[string]int)}
}

var _ store.PersonStore = (*MockPersonStore)(nil)

func (m *MockPersonStore) track(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[method]++
}

// CallCount returns how many times method was invoked.
func (m *MockPersonStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

// List implements the PersonStore interface
func (m *MockPersonStore) List(ctx context.Context) ([]domain.Person, error) {
	m.track("List")
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Persons), nil
}

// Get implements the PersonStore interface
func (m *MockPersonStore) Get(ctx context.Context, id int64) (*domain.Person, error) {
	m.track("Get")
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Persons {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, store.ErrPersonNotFound
}

// Create implements the PersonStore interface
func (m *MockPersonStore) Create(ctx context.Context, person *domain.Person) error {
	m.track("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, person)
	}

	if err := person.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	person.ID = m.nextID
	m.Persons = append(m.Persons, *person)
	return nil
}

// Delete implements the PersonStore interface
func (m *MockPersonStore) Delete(ctx context.Context, id int64) error {
	m.track("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.Persons)
	m.Persons = slices.DeleteFunc(m.Persons, func(p domain.Person) bool { return p.ID == id })
	if len(m.Persons) == before {
		return store.ErrPersonNotFound
	}
	return nil
}

// DeleteAll implements the PersonStore interface
func (m *MockPersonStore) DeleteAll(ctx context.Context) (int64, error) {
	m.track("DeleteAll")
	if m.DeleteAllFn != nil {
		return m.DeleteAllFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.Persons))
	m.Persons = nil
	return n, nil
}
