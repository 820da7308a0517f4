package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/phrazzld/persona/internal/domain"
	"github.com/phrazzld/persona/internal/redact"
	"golang.org/x/sync/singleflight"
)

// ConfigLoader supplies connection settings at connect time.
type ConfigLoader func() (Settings, error)

// Manager owns the single shared Handle.
//
// The handle slot is read lock-free on the fast path and written only while
// holding mu. Concurrent misses are collapsed into one attempt by the
// single-flight gate, so every caller of that attempt sees the same handle
// or the same error.
type Manager struct {
	load      ConfigLoader
	connector Connector
	logger    *slog.Logger

	current  atomic.Pointer[Handle]
	mu       sync.Mutex
	gate     singleflight.Group
	attempts atomic.Int64
}

// NewManager creates a Manager. No connection is made until Acquire.
func NewManager(load ConfigLoader, connector Connector, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		load:      load,
		connector: connector,
		logger:    logger.With("component", "connection_manager"),
	}
}

// Acquire returns the shared handle, connecting if none exists.
//
// Errors are *domain.OpError values of kind KindConfigMissing when settings
// cannot be loaded and KindConnectFailure when the connect itself fails. On
// failure the slot stays empty and a later call tries again.
func (m *Manager) Acquire(ctx context.Context) (*Handle, error) {
	if h := m.current.Load(); h != nil {
		return h, nil
	}

	v, err, shared := m.gate.Do("connect", func() (any, error) {
		return m.connect(ctx)
	})
	if shared {
		m.logger.Debug("joined in-flight connection attempt")
	}
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

// connect performs one connection attempt under mu.
func (m *Manager) connect(ctx context.Context) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h := m.current.Load(); h != nil {
		return h, nil
	}

	settings, err := m.load()
	if err != nil {
		m.logger.Error("failed to load connection settings", "error", redact.Error(err))
		return nil, domain.NewOpError(domain.KindConfigMissing, "acquire", err)
	}

	attempt := m.attempts.Add(1)
	m.logger.Debug("connecting to database",
		"attempt", attempt,
		"url", redact.URL(settings.URL))

	h, err := m.connector.Connect(ctx, settings)
	if err != nil {
		m.logger.Error("failed to connect to database",
			"attempt", attempt,
			"error", redact.Error(err))
		return nil, domain.NewOpError(domain.KindConnectFailure, "acquire", err)
	}

	m.current.Store(h)
	return h, nil
}

// Ping verifies the shared handle, connecting first if necessary.
func (m *Manager) Ping(ctx context.Context) error {
	h, err := m.Acquire(ctx)
	if err != nil {
		return err
	}
	if err := h.DB.PingContext(ctx); err != nil {
		return domain.NewOpError(domain.KindConnectFailure, "ping", err)
	}
	return nil
}

// Close closes and clears the handle. It is a no-op when no handle exists.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.current.Swap(nil)
	if h == nil {
		return nil
	}

	m.logger.Info("closing database connection", "driver", h.Driver)
	if err := h.Close(); err != nil {
		return fmt.Errorf("failed to close database handle: %w", err)
	}
	return nil
}

// ConnectAttempts reports how many connects have been attempted.
func (m *Manager) ConnectAttempts() int64 {
	return m.attempts.Load()
}
