package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/persona/internal/config"
	"github.com/phrazzld/persona/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := logger.ParseLevel(tt.name)
			assert.Equal(t, tt.want, level)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l, err := logger.SetupWithWriter(config.LogConfig{Level: "warn"}, buf)
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("should be filtered")
	l.Warn("connection slow", "elapsed_ms", 250)

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1, "Info should be below the configured level")
	assert.Equal(t, "connection slow", entries[0]["msg"])
	assert.Equal(t, float64(250), entries[0]["elapsed_ms"])
	assert.Same(t, l, slog.Default(), "Setup should install the logger as default")
}

func TestSetupWithInvalidLevelFallsBackToInfo(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l, err := logger.SetupWithWriter(config.LogConfig{Level: "loud"}, buf)
	require.NoError(t, err)

	logger.AssertLogContains(t, buf, "invalid log level configured")
	assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, l.Enabled(context.Background(), slog.LevelInfo))
}

func TestFromContextOrDefault(t *testing.T) {
	defaultLogger := logger.Discard()
	customLogger := logger.Discard()

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{
			name:     "nil_context_returns_default",
			ctx:      nil,
			expected: defaultLogger,
		},
		{
			name:     "context_without_logger_returns_default",
			ctx:      context.Background(),
			expected: defaultLogger,
		},
		{
			name:     "context_with_logger_returns_context_logger",
			ctx:      logger.WithLogger(context.Background(), customLogger),
			expected: customLogger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := logger.FromContextOrDefault(tt.ctx, defaultLogger)
			assert.Same(t, tt.expected, result)
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Run("valid_logger", func(t *testing.T) {
		customLogger := logger.Discard()
		ctx := logger.WithLogger(context.Background(), customLogger)

		assert.Same(t, customLogger, logger.FromContext(ctx))
	})

	t.Run("nil_logger_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.WithLogger(context.Background(), nil)
		})
	})
}

func TestEntriesWithMessage(t *testing.T) {
	buf, l := logger.NewTestLogger(t)
	l.Info("task completed", "task_id", "a")
	l.Info("task started", "task_id", "b")
	l.Info("task completed", "task_id", "c")

	matched, err := buf.EntriesWithMessage("task completed")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "a", matched[0]["task_id"])
	assert.Equal(t, "c", matched[1]["task_id"])
}
