package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/persona/internal/config"
	_ "modernc.org/sqlite" // sqlite driver
)

// Registered database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Settings are the connection parameters read from configuration.
type Settings struct {
	URL            string
	User           string
	Password       string
	MaxOpenConns   int
	ConnectTimeout time.Duration
}

// SettingsFrom converts the db.* configuration group into Settings.
func SettingsFrom(cfg config.DatabaseConfig) Settings {
	return Settings{
		URL:            cfg.URL,
		User:           cfg.User,
		Password:       cfg.Password,
		MaxOpenConns:   cfg.MaxOpenConns,
		ConnectTimeout: cfg.ConnectTimeout,
	}
}

// Handle is one live database session shared by all operations.
type Handle struct {
	DB     *sql.DB
	Driver string
}

// Close closes the underlying database.
func (h *Handle) Close() error {
	return h.DB.Close()
}

// Connector opens a Handle for the given settings.
type Connector interface {
	Connect(ctx context.Context, s Settings) (*Handle, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context, s Settings) (*Handle, error)

// Connect implements Connector.
func (f ConnectorFunc) Connect(ctx context.Context, s Settings) (*Handle, error) {
	return f(ctx, s)
}

// ParseURL determines the driver and DSN for a configured URL.
//
// postgres:// and postgresql:// URLs (optionally prefixed with "jdbc:") use
// pgx; user and password are injected when the URL carries none. sqlite:
// URLs use modernc.org/sqlite with the remainder as the file path, and
// "sqlite::memory:" opens an in-memory database.
func ParseURL(raw, user, password string) (driver, dsn string, err error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "jdbc:")

	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", fmt.Errorf("invalid database URL: %w", err)
		}
		if u.User == nil && user != "" {
			if password != "" {
				u.User = url.UserPassword(user, password)
			} else {
				u.User = url.User(user)
			}
		}
		return DriverPostgres, u.String(), nil

	case strings.HasPrefix(raw, "sqlite:"):
		path := strings.TrimPrefix(strings.TrimPrefix(raw, "sqlite:"), "//")
		if path == "" {
			return "", "", fmt.Errorf("invalid database URL %q: missing sqlite path", raw)
		}
		return DriverSQLite, path, nil

	default:
		return "", "", fmt.Errorf("unsupported database URL scheme in %q", raw)
	}
}

// SQLConnector opens handles through database/sql.
type SQLConnector struct {
	Logger *slog.Logger
}

// Connect opens the database, bounds its pool to MaxOpenConns sessions and
// verifies it with a ping bounded by ConnectTimeout.
func (c SQLConnector) Connect(ctx context.Context, s Settings) (*Handle, error) {
	log := c.Logger
	if log == nil {
		log = slog.Default()
	}

	driver, dsn, err := ParseURL(s.URL, s.User, s.Password)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	maxOpen := s.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)

	timeout := s.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established",
		"driver", driver,
		"max_open_conns", maxOpen)
	return &Handle{DB: db, Driver: driver}, nil
}
