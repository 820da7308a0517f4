package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/persona/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecutor(t *testing.T) {
	t.Parallel()

	e := NewExecutor(DefaultExecutorConfig(), logger.Discard())
	defer e.Close()
	assert.Equal(t, 4, e.Stats().Workers)

	invalid := NewExecutor(ExecutorConfig{WorkerCount: -3}, logger.Discard())
	defer invalid.Close()
	assert.Equal(t, 1, invalid.Stats().Workers)
}

func TestSubmit_ReturnsValue(t *testing.T) {
	t.Parallel()

	e := NewExecutor(DefaultExecutorConfig(), logger.Discard())
	defer e.Close()

	tk := Submit(e, "double", func(ctx context.Context) (int, error) { return 21 * 2, nil })
	v, err := tk.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	boom := errors.New("boom")
	failed := Submit(e, "fail", func(ctx context.Context) (string, error) { return "", boom })
	_, err = failed.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, TaskStatusFailed, failed.Status())
}

func TestSubmit_DoesNotBlock(t *testing.T) {
	t.Parallel()

	e := NewExecutor(ExecutorConfig{WorkerCount: 1}, logger.Discard())
	release := make(chan struct{})
	defer func() {
		close(release)
		e.Close()
	}()

	start := time.Now()
	for range 100 {
		Submit(e, "blocked", func(ctx context.Context) (struct{}, error) {
			<-release
			return struct{}{}, nil
		})
	}
	assert.Less(t, time.Since(start), time.Second)
	assert.Eventually(t, func() bool { return e.Stats().Queued == 99 }, time.Second, time.Millisecond)
}

func TestSubmit_ContextCarriesTaskLogger(t *testing.T) {
	t.Parallel()

	buf, log := logger.NewTestLogger(t)
	e := NewExecutor(ExecutorConfig{WorkerCount: 1}, log)
	defer e.Close()

	tk := Submit(e, "log_context", func(ctx context.Context) (struct{}, error) {
		logger.FromContext(ctx).Info("inside work")
		return struct{}{}, nil
	})
	_, err := tk.Wait(context.Background())
	require.NoError(t, err)

	entries, err := buf.EntriesWithMessage("inside work")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, tk.ID().String(), entries[0]["task_id"])
	assert.Equal(t, "log_context", entries[0]["task_type"])
	assert.Contains(t, entries[0], "worker_id")
}

func TestExecutor_EachTaskRunsOnceWithBoundedConcurrency(t *testing.T) {
	t.Parallel()

	const (
		workers = 4
		total   = 1000
	)
	e := NewExecutor(ExecutorConfig{WorkerCount: workers}, logger.Discard())

	var active, peak atomic.Int32
	runs := make([]atomic.Int32, total)
	tasks := make([]*AsyncTask[int], total)

	for i := range total {
		tasks[i] = Submit(e, "count", func(ctx context.Context) (int, error) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			runs[i].Add(1)
			active.Add(-1)
			return i, nil
		})
	}

	var hooks atomic.Int32
	for _, tk := range tasks {
		tk.OnComplete(func(int, error) { hooks.Add(1) })
	}

	for i, tk := range tasks {
		v, err := tk.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	e.Close()

	for i := range runs {
		assert.EqualValues(t, 1, runs[i].Load(), "task %d", i)
	}
	assert.EqualValues(t, total, hooks.Load())
	assert.LessOrEqual(t, peak.Load(), int32(workers))

	stats := e.Stats()
	assert.EqualValues(t, total, stats.Completed)
	assert.Zero(t, stats.Failed)
	assert.Zero(t, stats.Running)
}

func TestExecutor_RecoversPanics(t *testing.T) {
	t.Parallel()

	e := NewExecutor(ExecutorConfig{WorkerCount: 1}, logger.Discard())
	defer e.Close()

	bad := Submit(e, "panic", func(ctx context.Context) (int, error) { panic("kaboom") })
	_, err := bad.Wait(context.Background())
	assert.ErrorIs(t, err, ErrTaskPanicked)

	good := Submit(e, "after_panic", func(ctx context.Context) (int, error) { return 1, nil })
	v, err := good.Wait(context.Background())
	require.NoError(t, err, "worker should survive a panicking task")
	assert.Equal(t, 1, v)
}

func TestExecutor_SurvivesPanickingHook(t *testing.T) {
	t.Parallel()

	buf, log := logger.NewTestLogger(t)
	e := NewExecutor(ExecutorConfig{WorkerCount: 1}, log)

	release := make(chan struct{})
	first := Submit(e, "hooked", func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	var later atomic.Int32
	first.OnComplete(func(int, error) { panic("hook") })
	first.OnComplete(func(int, error) { later.Add(1) })
	close(release)

	second := Submit(e, "next", func(ctx context.Context) (int, error) { return 2, nil })
	v, err := second.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	e.Close()
	assert.EqualValues(t, 1, later.Load(), "a hook after a panicking one still runs")
	assert.EqualValues(t, 2, e.Stats().Completed, "outcome is counted before hooks run")
	logger.AssertLogContains(t, buf, "completion hook panicked")
}

func TestExecutor_TaskFailureLogIsRedacted(t *testing.T) {
	t.Parallel()

	buf, log := logger.NewTestLogger(t)
	e := NewExecutor(ExecutorConfig{WorkerCount: 1}, log)

	tk := Submit(e, "connect", func(ctx context.Context) (int, error) {
		return 0, errors.New("dial postgres://ruben:s3cret@db/persons: refused")
	})
	_, err := tk.Wait(context.Background())
	require.Error(t, err)
	e.Close()

	logger.AssertLogContains(t, buf, "task failed")
	assert.NotContains(t, buf.String(), "s3cret")
}

func TestExecutor_CloseDrains(t *testing.T) {
	t.Parallel()

	e := NewExecutor(ExecutorConfig{WorkerCount: 2, DrainOnClose: true}, logger.Discard())

	var ran atomic.Int32
	tasks := make([]*AsyncTask[struct{}], 20)
	for i := range tasks {
		tasks[i] = Submit(e, "drain", func(ctx context.Context) (struct{}, error) {
			time.Sleep(time.Millisecond)
			ran.Add(1)
			return struct{}{}, nil
		})
	}

	e.Close()

	assert.EqualValues(t, len(tasks), ran.Load())
	for _, tk := range tasks {
		assert.Equal(t, TaskStatusCompleted, tk.Status())
	}
}

func TestExecutor_CloseDiscardsQueued(t *testing.T) {
	t.Parallel()

	e := NewExecutor(ExecutorConfig{WorkerCount: 1, DrainOnClose: false}, logger.Discard())

	started := make(chan struct{})
	release := make(chan struct{})
	running := Submit(e, "running", func(ctx context.Context) (string, error) {
		close(started)
		<-release
		return "finished", nil
	})
	<-started

	queued := make([]*AsyncTask[string], 5)
	for i := range queued {
		queued[i] = Submit(e, "queued", func(ctx context.Context) (string, error) {
			return "should not run", nil
		})
	}

	var closed sync.WaitGroup
	closed.Add(1)
	go func() {
		defer closed.Done()
		e.Close()
	}()

	for _, tk := range queued {
		_, err := tk.Wait(context.Background())
		assert.ErrorIs(t, err, ErrExecutorClosed)
	}

	close(release)
	closed.Wait()

	v, err := running.Result()
	require.NoError(t, err, "running tasks finish during close")
	assert.Equal(t, "finished", v)
	assert.EqualValues(t, 5, e.Stats().Failed)
}

func TestExecutor_SubmitAfterClose(t *testing.T) {
	t.Parallel()

	e := NewExecutor(DefaultExecutorConfig(), logger.Discard())
	e.Close()
	e.Close()

	var ran atomic.Bool
	tk := Submit(e, "late", func(ctx context.Context) (int, error) {
		ran.Store(true)
		return 1, nil
	})

	select {
	case <-tk.Done():
	default:
		t.Fatal("task submitted after close should already be done")
	}
	_, err := tk.Result()
	assert.ErrorIs(t, err, ErrExecutorClosed)
	assert.Equal(t, TaskStatusFailed, tk.Status())
	assert.False(t, ran.Load())
}
