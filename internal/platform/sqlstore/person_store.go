package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/persona/internal/domain"
	"github.com/phrazzld/persona/internal/platform/logger"
	"github.com/phrazzld/persona/internal/store"
)

const personEntity = "person"

// PersonStore implements store.PersonStore on database/sql.
type PersonStore struct {
	db      store.DBTX
	dialect dialect
	logger  *slog.Logger
}

// NewPersonStore creates a PersonStore running statements on db for the
// given driver (database.DriverPostgres or database.DriverSQLite).
// If logger is nil, a default logger will be used.
func NewPersonStore(db store.DBTX, driver string, logger *slog.Logger) *PersonStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PersonStore{
		db:      db,
		dialect: dialect{driver: driver},
		logger:  logger.With(slog.String("component", "person_store")),
	}
}

// Ensure PersonStore implements store.PersonStore interface
var _ store.PersonStore = (*PersonStore)(nil)

// List implements store.PersonStore.List. Rows are ordered by id.
func (s *PersonStore) List(ctx context.Context) ([]domain.Person, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.rebind(`SELECT ` + personColumns + ` FROM persons ORDER BY id`)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list persons", slog.String("error", err.Error()))
		return nil, store.NewStoreError(personEntity, "list", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	persons := make([]domain.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			log.Error("failed to scan person row", slog.String("error", err.Error()))
			return nil, store.NewStoreError(personEntity, "list", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating person rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError(personEntity, "list", MapError(err))
	}

	log.Debug("persons listed", slog.Int("count", len(persons)))
	return persons, nil
}

// Get implements store.PersonStore.Get.
func (s *PersonStore) Get(ctx context.Context, id int64) (*domain.Person, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.rebind(`SELECT ` + personColumns + ` FROM persons WHERE id = ?`)
	p, err := scanPerson(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("person not found", slog.Int64("person_id", id))
			return nil, store.ErrPersonNotFound
		}
		log.Error("failed to get person by ID",
			slog.String("error", err.Error()),
			slog.Int64("person_id", id))
		return nil, store.NewStoreError(personEntity, "get", MapError(err))
	}

	return &p, nil
}

// Create implements store.PersonStore.Create.
func (s *PersonStore) Create(ctx context.Context, person *domain.Person) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if person.IsPersisted() {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrIDAlreadySet)
	}
	if err := person.Validate(); err != nil {
		log.Warn("person validation failed during create", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := s.dialect.rebind(`
		INSERT INTO persons (first_name, last_name, birth_date)
		VALUES (?, ?, ?)
		RETURNING id
	`)

	var id int64
	if err := s.db.QueryRowContext(ctx, query, s.dialect.personArgs(person)...).Scan(&id); err != nil {
		log.Error("failed to create person",
			slog.String("error", err.Error()),
			slog.String("first_name", person.FirstName),
			slog.String("last_name", person.LastName))
		return store.NewStoreError(personEntity, "create", MapError(err))
	}
	person.ID = id

	log.Info("person created successfully", slog.Int64("person_id", id))
	return nil
}

// Delete implements store.PersonStore.Delete.
func (s *PersonStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.rebind(`DELETE FROM persons WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete person",
			slog.String("error", err.Error()),
			slog.Int64("person_id", id))
		return store.NewStoreError(personEntity, "delete", MapError(err))
	}

	if err := checkRowsAffected(result, store.ErrPersonNotFound); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("person not found for deletion", slog.Int64("person_id", id))
			return err
		}
		return store.NewStoreError(personEntity, "delete", err)
	}

	log.Info("person deleted successfully", slog.Int64("person_id", id))
	return nil
}

// DeleteAll implements store.PersonStore.DeleteAll.
func (s *PersonStore) DeleteAll(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM persons`))
	if err != nil {
		log.Error("failed to delete all persons", slog.String("error", err.Error()))
		return 0, store.NewStoreError(personEntity, "delete_all", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError(personEntity, "delete_all",
			fmt.Errorf("failed to get rows affected: %w", err))
	}

	log.Info("all persons deleted", slog.Int64("count", n))
	return n, nil
}
