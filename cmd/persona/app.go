package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/persona/internal/config"
	"github.com/phrazzld/persona/internal/events"
	"github.com/phrazzld/persona/internal/platform/database"
	"github.com/phrazzld/persona/internal/platform/logger"
	"github.com/phrazzld/persona/internal/presenter"
	"github.com/phrazzld/persona/internal/repository"
	"github.com/phrazzld/persona/internal/task"
	"github.com/phrazzld/persona/internal/ui"
)

// application holds the wired components for one command invocation.
type application struct {
	logger     *slog.Logger
	manager    *database.Manager
	executor   *task.Executor
	emitter    *events.InMemoryEventEmitter
	repo       *repository.Persons
	loop       *ui.QueueLoop
	dispatcher *ui.Dispatcher
	notifier   *consoleNotifier
	table      *presenter.Table
}

// fallbackConfig is used for the executor and logging when the properties
// cannot be loaded at startup. The database settings are re-read on first
// use, so that failure surfaces as config_missing from the operation itself.
func fallbackConfig() *config.Config {
	return &config.Config{
		Executor: config.ExecutorConfig{
			Workers:      task.DefaultExecutorConfig().WorkerCount,
			DrainOnClose: true,
		},
		Log: config.LogConfig{Level: "info"},
	}
}

// newApplication loads configuration and wires every component. Data goes
// to out; logs and notices go to errOut.
func newApplication(configFile string, out, errOut io.Writer) (*application, error) {
	errOut = &lockedWriter{w: errOut}

	cfg, cfgErr := config.LoadFile(configFile)
	if cfgErr != nil {
		cfg = fallbackConfig()
	}

	log, err := logger.SetupWithWriter(cfg.Log, errOut)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	if cfgErr != nil {
		log.Warn("configuration not loaded, database operations will fail", "error", cfgErr)
	}

	loadSettings := func() (database.Settings, error) {
		c, err := config.LoadFile(configFile)
		if err != nil {
			return database.Settings{}, err
		}
		return database.SettingsFrom(c.Database), nil
	}

	manager := database.NewManager(loadSettings, database.SQLConnector{Logger: log}, log)
	executor := task.NewExecutor(task.ExecutorConfig{
		WorkerCount:  cfg.Executor.Workers,
		DrainOnClose: cfg.Executor.DrainOnClose,
	}, log)

	emitter := events.NewInMemoryEventEmitter(log)
	emitter.Subscribe(events.HandlerFunc(func(ctx context.Context, e *events.PersonsChangedEvent) error {
		logger.FromContextOrDefault(ctx, log).Info("persons changed",
			"event_id", e.ID,
			"op", e.Op,
			"person_id", e.PersonID,
			"rows", e.Rows)
		return nil
	}))

	repo := repository.NewPersons(manager, executor, emitter, log)
	loop := ui.NewQueueLoop(log)
	dispatcher := ui.NewDispatcher(loop, log)
	notifier := newConsoleNotifier(out, errOut)

	return &application{
		logger:     log,
		manager:    manager,
		executor:   executor,
		emitter:    emitter,
		repo:       repo,
		loop:       loop,
		dispatcher: dispatcher,
		notifier:   notifier,
		table:      presenter.NewTable(repo, dispatcher, notifier, log),
	}, nil
}

// runOnUI runs op on the UI loop from the calling goroutine and returns
// once the channel op returns is closed. The loop is single use, so each
// application runs at most one UI operation.
func (a *application) runOnUI(ctx context.Context, op func() <-chan struct{}) error {
	a.loop.Post(func() {
		done := op()
		go func() {
			<-done
			a.loop.Stop()
		}()
	})
	if err := a.loop.Run(ctx); err != nil {
		return err
	}
	if a.notifier.failed() {
		return errOperationFailed
	}
	return nil
}

// errOperationFailed is returned after an error notice has been printed.
var errOperationFailed = errors.New("operation failed")

// close stops the workers before releasing the shared handle.
func (a *application) close() error {
	a.executor.Close()
	if err := a.manager.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
