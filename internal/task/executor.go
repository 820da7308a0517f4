package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/phrazzld/persona/internal/platform/logger"
	"github.com/phrazzld/persona/internal/redact"
)

// ExecutorConfig holds configuration for the executor
type ExecutorConfig struct {
	// WorkerCount is the fixed number of worker goroutines.
	// If zero or negative, defaults to 1.
	WorkerCount int

	// DrainOnClose runs queued tasks during Close instead of failing them
	// with ErrExecutorClosed.
	DrainOnClose bool
}

// DefaultExecutorConfig returns an ExecutorConfig with reasonable defaults
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		WorkerCount:  4,
		DrainOnClose: true,
	}
}

// Stats is a point-in-time snapshot of executor counters.
type Stats struct {
	Workers   int
	Queued    int
	Running   int64
	Completed int64
	Failed    int64
}

// Executor runs submitted tasks on a fixed pool of workers.
type Executor struct {
	queue  *taskQueue
	config ExecutorConfig
	logger *slog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once

	running   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// NewExecutor creates an executor and starts its workers.
func NewExecutor(config ExecutorConfig, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "task_executor")

	if config.WorkerCount <= 0 {
		log.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		config.WorkerCount = 1
	}

	e := &Executor{
		queue:  newTaskQueue(),
		config: config,
		logger: log,
	}

	for i := range config.WorkerCount {
		e.wg.Add(1)
		go e.worker(i)
	}

	log.Info("task executor started",
		"worker_count", config.WorkerCount,
		"drain_on_close", config.DrainOnClose)
	return e
}

// Submit queues work on the executor and returns its task immediately.
// After Close the returned task is already Failed with ErrExecutorClosed.
func Submit[T any](e *Executor, typ string, work Work[T]) *AsyncTask[T] {
	t := newAsyncTask(typ, work)

	if !e.queue.push(t) {
		e.logger.Warn("task submitted after close",
			"task_id", t.ID(),
			"task_type", typ)
		e.failed.Add(1)
		t.fail(ErrExecutorClosed)
		t.notify(e.hookPanicked(e.logger.With("task_id", t.ID(), "task_type", typ)))
		return t
	}

	e.logger.Debug("task enqueued",
		"task_id", t.ID(),
		"task_type", typ)
	return t
}

// Close stops accepting work and waits for the workers to exit. Running
// tasks always finish; queued tasks run or fail depending on DrainOnClose.
// Close is idempotent and must not be called from inside a task.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		discarded := e.queue.close(e.config.DrainOnClose)
		for _, r := range discarded {
			e.failed.Add(1)
			r.fail(ErrExecutorClosed)
			r.notify(e.hookPanicked(e.logger.With("task_id", r.ID(), "task_type", r.Type())))
		}
		if len(discarded) > 0 {
			e.logger.Warn("discarded queued tasks on close", "count", len(discarded))
		}

		e.wg.Wait()
		e.logger.Info("task executor stopped",
			"completed", e.completed.Load(),
			"failed", e.failed.Load())
	})
}

// Stats returns a snapshot of the executor counters.
func (e *Executor) Stats() Stats {
	return Stats{
		Workers:   e.config.WorkerCount,
		Queued:    e.queue.len(),
		Running:   e.running.Load(),
		Completed: e.completed.Load(),
		Failed:    e.failed.Load(),
	}
}

// worker processes tasks from the queue until it is closed and empty.
func (e *Executor) worker(id int) {
	defer e.wg.Done()

	e.logger.Debug("starting worker", "worker_id", id)
	for {
		r, ok := e.queue.pop()
		if !ok {
			e.logger.Debug("task queue closed, stopping worker", "worker_id", id)
			return
		}
		e.process(r, id)
	}
}

// process runs one task. Its outcome is counted before any completion hook
// runs; a panicking hook is logged and the worker carries on.
func (e *Executor) process(r runnable, workerID int) {
	log := e.logger.With(
		"task_id", r.ID(),
		"task_type", r.Type(),
		"worker_id", workerID,
	)
	ctx := logger.WithLogger(context.Background(), log)

	e.running.Add(1)
	log.Debug("processing task")
	err := r.execute(ctx)
	e.running.Add(-1)

	if err != nil {
		e.failed.Add(1)
		log.Warn("task failed", "error", redact.Error(err))
	} else {
		e.completed.Add(1)
		log.Debug("task completed successfully")
	}

	r.notify(e.hookPanicked(log))
}

func (e *Executor) hookPanicked(log *slog.Logger) func(any) {
	return func(p any) {
		log.Error("completion hook panicked", "panic", fmt.Sprint(p))
	}
}
