// Package migrations owns the persons schema. Migration files are embedded
// per SQL dialect and applied with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/phrazzld/persona/internal/platform/database"
	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
)

// TableName is the goose version table.
const TableName = "schema_migrations"

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// newProvider builds a goose provider for the driver's dialect.
func newProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	var (
		dialect goosedb.Dialect
		dir     string
	)
	switch driver {
	case database.DriverPostgres:
		dialect, dir = goosedb.DialectPostgres, "postgres"
	case database.DriverSQLite:
		dialect, dir = goosedb.DialectSQLite3, "sqlite"
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}

	fsys, err := fs.Sub(files, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations directory %s: %w", dir, err)
	}

	versions, err := goosedb.NewStore(dialect, TableName)
	if err != nil {
		return nil, fmt.Errorf("failed to create version store: %w", err)
	}

	return goose.NewProvider("", db, fsys, goose.WithStore(versions))
}

// Up applies all pending migrations and returns the resulting version.
func Up(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) (int64, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return 0, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, r := range results {
		logger.Info("applied migration",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration", r.Duration)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Version reports the currently applied schema version.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}
