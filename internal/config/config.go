package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Database DatabaseConfig `mapstructure:"db" validate:"required"`
	Executor ExecutorConfig `mapstructure:"executor" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
}

// DatabaseConfig contains the connection settings read from the
// db.url, db.user and db.password keys.
type DatabaseConfig struct {
	URL      string `mapstructure:"url" validate:"required"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`

	// MaxOpenConns bounds the sessions behind the shared handle.
	// The default of 1 makes the handle a single database session.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=1,lte=16"`

	// ConnectTimeout bounds the initial ping when the handle is created.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`
}

// ExecutorConfig controls the background worker pool.
type ExecutorConfig struct {
	Workers int `mapstructure:"workers" validate:"gte=1,lte=64"`

	// DrainOnClose runs queued-but-unstarted work on Close instead of
	// failing it.
	DrainOnClose bool `mapstructure:"drain_on_close"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}
