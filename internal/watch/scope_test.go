package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// recorder is a TaskRunner and Reporter that remembers what happened
type recorder struct {
	mu       sync.Mutex
	tasks    []string
	batches  []Batch
	results  []error
	started  []string
	finished []string
	fail     map[string]error
	// gate, when set, blocks the first task of the first run until closed
	gate    chan struct{}
	entered chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fail: map[string]error{}, entered: make(chan struct{}, 16)}
}

func (r *recorder) RunTask(ctx context.Context, task string, batch Batch) error {
	r.mu.Lock()
	first := len(r.tasks) == 0
	r.tasks = append(r.tasks, task)
	err := r.fail[task]
	gate := r.gate
	r.mu.Unlock()

	r.entered <- struct{}{}
	if first && gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (r *recorder) RunStarted(scope string, batch Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batch)
}

func (r *recorder) RunFinished(scope string, err error, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, err)
}

func (r *recorder) TaskStarted(scope, task string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, task)
}

func (r *recorder) TaskFinished(scope, task string, err error, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, task)
}

func (r *recorder) runCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func (r *recorder) snapshot() ([]string, []Batch, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tasks...), append([]Batch(nil), r.batches...), append([]error(nil), r.results...)
}

const testDebounce = 40 * time.Millisecond

func startScope(t *testing.T, def config.WatchScope, rec *recorder) (*Scope, context.CancelFunc, <-chan error) {
	t.Helper()
	if def.Debounce == 0 {
		def.Debounce = testDebounce
	}
	s := NewScope(def, ScopeOptions{Runner: rec, Reporter: rec, OutputDir: "out"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s, cancel, done
}

func TestScopeDebouncesBursts(t *testing.T) {
	rec := newRecorder()
	s, _, _ := startScope(t, config.WatchScope{Name: "compilation", Tasks: []string{"compile"}}, rec)

	s.Notify("contracts/A.sol")
	s.Notify("contracts/B.sol")
	s.Notify("contracts/A.sol")
	s.Notify("contracts/C.sol")

	require.Eventually(t, func() bool { return rec.runCount() == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(5 * testDebounce)

	tasks, batches, results := rec.snapshot()
	assert.Equal(t, []string{"compile"}, tasks)
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"contracts/A.sol", "contracts/B.sol", "contracts/C.sol"}, batches[0].Paths)
	assert.NoError(t, results[0])
	assert.Equal(t, 1, s.Runs())
	assert.Equal(t, StateIdle, s.State())
}

func TestScopeCoalescesChangesDuringRun(t *testing.T) {
	rec := newRecorder()
	rec.gate = make(chan struct{})
	s, _, _ := startScope(t, config.WatchScope{Name: "test", Tasks: []string{"compile"}}, rec)

	s.Notify("contracts/A.sol")
	select {
	case <-rec.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first run never started")
	}
	require.Equal(t, StateRunning, s.State())

	for _, p := range []string{"a", "b", "c", "d", "e"} {
		s.Notify("contracts/" + p + ".sol")
		time.Sleep(2 * time.Millisecond)
	}
	close(rec.gate)

	require.Eventually(t, func() bool { return rec.runCount() == 2 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(5 * testDebounce)

	_, batches, _ := rec.snapshot()
	assert.Equal(t, 2, rec.runCount(), "exactly one follow-up run")
	require.Len(t, batches, 2)
	assert.Equal(t, []string{"contracts/A.sol"}, batches[0].Paths)
	assert.Len(t, batches[1].Paths, 5)
	assert.Equal(t, StateIdle, s.State())
}

func TestScopeFailureStopsSequenceButNotWatching(t *testing.T) {
	rec := newRecorder()
	rec.fail["test"] = errors.New("2 failing tests")
	s, _, _ := startScope(t, config.WatchScope{Name: "test", Tasks: []string{"compile", "test", "size"}}, rec)

	s.Notify("test/Vault.t.sol")
	require.Eventually(t, func() bool { return rec.runCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	tasks, _, results := rec.snapshot()
	assert.Equal(t, []string{"compile", "test"}, tasks)

	var taskErr *domain.TaskError
	require.ErrorAs(t, results[0], &taskErr)
	assert.Equal(t, "test", taskErr.Task)

	rec.mu.Lock()
	rec.fail = map[string]error{}
	rec.mu.Unlock()

	s.Notify("test/Vault.t.sol")
	require.Eventually(t, func() bool { return rec.runCount() == 2 }, 2*time.Second, 5*time.Millisecond)

	tasks, _, results = rec.snapshot()
	assert.Equal(t, []string{"compile", "test", "compile", "test", "size"}, tasks)
	assert.NoError(t, results[1])
}

func TestScopeVerboseReporting(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		rec := newRecorder()
		s, _, _ := startScope(t, config.WatchScope{Name: "v", Tasks: []string{"compile", "test"}, Verbose: verbose}, rec)

		s.Notify("contracts/A.sol")
		require.Eventually(t, func() bool { return rec.runCount() == 1 }, 2*time.Second, 5*time.Millisecond)

		rec.mu.Lock()
		require.Len(t, rec.batches, 1)
		assert.Equal(t, verbose, rec.batches[0].Verbose)
		if verbose {
			assert.Equal(t, []string{"compile", "test"}, rec.started)
			assert.Equal(t, []string{"compile", "test"}, rec.finished)
		} else {
			assert.Empty(t, rec.started)
			assert.Empty(t, rec.finished)
		}
		rec.mu.Unlock()
	}
}

func TestScopeRecoversTaskPanics(t *testing.T) {
	runner := TaskRunnerFunc(func(ctx context.Context, task string, batch Batch) error {
		panic("boom")
	})
	rec := newRecorder()
	s := NewScope(config.WatchScope{Name: "p", Tasks: []string{"compile"}, Debounce: testDebounce}, ScopeOptions{Runner: runner, Reporter: rec})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	s.Notify("contracts/A.sol")
	require.Eventually(t, func() bool { return rec.runCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	_, _, results := rec.snapshot()
	require.Error(t, results[0])
	assert.Contains(t, results[0].Error(), "panic: boom")
}

func TestScopeStopsOnCancel(t *testing.T) {
	rec := newRecorder()
	s := NewScope(config.WatchScope{Name: "c", Tasks: []string{"compile"}}, ScopeOptions{Runner: rec})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scope did not stop")
	}
}

func TestOutputLocks(t *testing.T) {
	t.Run("serializes holders of the same directory", func(t *testing.T) {
		locks := NewOutputLocks()
		release, err := locks.Acquire(context.Background(), "out")
		require.NoError(t, err)

		acquired := make(chan struct{})
		go func() {
			r, err := locks.Acquire(context.Background(), "./out")
			if err == nil {
				close(acquired)
				r()
			}
		}()

		select {
		case <-acquired:
			t.Fatal("second holder acquired a held lock")
		case <-time.After(50 * time.Millisecond):
		}

		release()
		release()
		select {
		case <-acquired:
		case <-time.After(time.Second):
			t.Fatal("lock was never released")
		}
	})

	t.Run("different directories are independent", func(t *testing.T) {
		locks := NewOutputLocks()
		r1, err := locks.Acquire(context.Background(), "out")
		require.NoError(t, err)
		defer r1()

		r2, err := locks.Acquire(context.Background(), "artifacts")
		require.NoError(t, err)
		r2()
	})

	t.Run("context cancels the wait", func(t *testing.T) {
		locks := NewOutputLocks()
		r, err := locks.Acquire(context.Background(), "out")
		require.NoError(t, err)
		defer r()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = locks.Acquire(ctx, "out")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestScopesSharingOutputDoNotOverlap(t *testing.T) {
	locks := NewOutputLocks()

	var mu sync.Mutex
	active, maxActive := 0, 0
	runner := TaskRunnerFunc(func(ctx context.Context, task string, batch Batch) error {
		mu.Lock()
		active++
		maxActive = max(maxActive, active)
		mu.Unlock()

		time.Sleep(30 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return nil
	})

	recA, recB := newRecorder(), newRecorder()
	a := NewScope(config.WatchScope{Name: "a", Tasks: []string{"compile"}, Debounce: 10 * time.Millisecond}, ScopeOptions{Runner: runner, Reporter: recA, Locks: locks, OutputDir: "out"})
	b := NewScope(config.WatchScope{Name: "b", Tasks: []string{"test"}, Debounce: 10 * time.Millisecond}, ScopeOptions{Runner: runner, Reporter: recB, Locks: locks, OutputDir: "out"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = a.Run(ctx) }()
	go func() { _ = b.Run(ctx) }()

	a.Notify("contracts/A.sol")
	b.Notify("contracts/A.sol")

	require.Eventually(t, func() bool { return recA.runCount() == 1 && recB.runCount() == 1 }, 2*time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxActive)
}
