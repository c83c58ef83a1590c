package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// Batch is the set of paths that changed since the previous run started
type Batch struct {
	Scope string
	Paths []string
	// Verbose asks task commands to stream their output live
	Verbose bool
}

// TaskRunner executes one named task of a sequence
type TaskRunner interface {
	RunTask(ctx context.Context, task string, batch Batch) error
}

// TaskRunnerFunc adapts a function to TaskRunner
type TaskRunnerFunc func(ctx context.Context, task string, batch Batch) error

func (f TaskRunnerFunc) RunTask(ctx context.Context, task string, batch Batch) error {
	return f(ctx, task, batch)
}

// Reporter receives scope notifications. Task-level calls are only made for verbose scopes.
type Reporter interface {
	RunStarted(scope string, batch Batch)
	RunFinished(scope string, err error, duration time.Duration)
	TaskStarted(scope, task string)
	TaskFinished(scope, task string, err error, duration time.Duration)
}

// NopReporter discards notifications
type NopReporter struct{}

func (NopReporter) RunStarted(string, Batch)                          {}
func (NopReporter) RunFinished(string, error, time.Duration)          {}
func (NopReporter) TaskStarted(string, string)                        {}
func (NopReporter) TaskFinished(string, string, error, time.Duration) {}

// Scope runs one watch scope's task sequence whenever its files change
type Scope struct {
	def       config.WatchScope
	runner    TaskRunner
	reporter  Reporter
	locks     *OutputLocks
	outputDir string
	log       *slog.Logger

	changes chan struct{}

	mu      sync.Mutex
	changed map[string]struct{}
	state   State
	runs    int
}

// ScopeOptions are the collaborators of a Scope
type ScopeOptions struct {
	Runner    TaskRunner
	Reporter  Reporter
	Locks     *OutputLocks
	OutputDir string
	Log       *slog.Logger
}

// NewScope creates a scope in the idle state
func NewScope(def config.WatchScope, opts ScopeOptions) *Scope {
	if def.Debounce <= 0 {
		def.Debounce = config.DefaultDebounce
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	if opts.Locks == nil {
		opts.Locks = NewOutputLocks()
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	return &Scope{
		def:       def,
		runner:    opts.Runner,
		reporter:  opts.Reporter,
		locks:     opts.Locks,
		outputDir: opts.OutputDir,
		log:       opts.Log.With("component", "watch", "scope", def.Name),
		changes:   make(chan struct{}, 1),
		changed:   make(map[string]struct{}),
		state:     StateIdle,
	}
}

// Name returns the scope name
func (s *Scope) Name() string {
	return s.def.Name
}

// Definition returns the scope definition
func (s *Scope) Definition() config.WatchScope {
	return s.def
}

// State returns the state last published by the scope loop
func (s *Scope) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Runs returns how many task sequences have been started
func (s *Scope) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Notify records a changed path. It never blocks.
func (s *Scope) Notify(path string) {
	s.mu.Lock()
	s.changed[path] = struct{}{}
	s.mu.Unlock()

	select {
	case s.changes <- struct{}{}:
	default:
		// a change is already queued for the loop
	}
}

type runResult struct {
	err      error
	duration time.Duration
}

// Run drives the state machine until ctx is done. A run in flight when ctx
// is cancelled receives the cancelled context and is abandoned.
func (s *Scope) Run(ctx context.Context) error {
	machine := NewMachine()
	done := make(chan runResult, 1)

	var timer *time.Timer
	var timerC <-chan time.Time
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timer, timerC = nil, nil
	}
	defer stopTimer()

	fire := func(event Event) {
		action, err := machine.Fire(event)
		if err != nil {
			s.log.Debug("ignoring event", "event", event, "error", err)
			return
		}
		s.publish(machine.State())

		switch action {
		case ActionResetTimer:
			stopTimer()
			timer = time.NewTimer(s.def.Debounce)
			timerC = timer.C
		case ActionStartRun:
			stopTimer()
			batch := s.takeBatch()
			go s.execute(ctx, batch, done)
		case ActionMarkPending:
			s.log.Debug("change during run, queued follow-up run")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.changes:
			fire(EventChange)
		case <-timerC:
			timer, timerC = nil, nil
			fire(EventDebounceElapsed)
		case res := <-done:
			if res.err != nil {
				s.log.Error("run failed", "error", res.err, "duration", res.duration)
			} else {
				s.log.Debug("run completed", "duration", res.duration)
			}
			if machine.Pending() && !s.hasChanges() {
				// the queued change was already picked up by the run that just finished
				machine.DropPending()
			}
			fire(EventRunFinished)
		}
	}
}

func (s *Scope) publish(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Scope) hasChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.changed) > 0
}

func (s *Scope) takeBatch() Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.changed))
	for p := range s.changed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	s.changed = make(map[string]struct{})
	s.runs++
	return Batch{Scope: s.def.Name, Paths: paths, Verbose: s.def.Verbose}
}

func (s *Scope) execute(ctx context.Context, batch Batch, done chan<- runResult) {
	start := time.Now()
	s.reporter.RunStarted(s.def.Name, batch)
	err := s.runSequence(ctx, batch)
	duration := time.Since(start)
	s.reporter.RunFinished(s.def.Name, err, duration)
	done <- runResult{err: err, duration: duration}
}

// runSequence runs the tasks in order; the first failure skips the rest
func (s *Scope) runSequence(ctx context.Context, batch Batch) error {
	release, err := s.locks.Acquire(ctx, s.outputDir)
	if err != nil {
		return err
	}
	defer release()

	for _, task := range s.def.Tasks {
		if err := s.runTask(ctx, task, batch); err != nil {
			var taskErr *domain.TaskError
			if errors.As(err, &taskErr) {
				return err
			}
			return &domain.TaskError{Task: task, Err: err}
		}
	}
	return nil
}

func (s *Scope) runTask(ctx context.Context, task string, batch Batch) (err error) {
	if s.def.Verbose {
		s.reporter.TaskStarted(s.def.Name, task)
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if s.def.Verbose {
			s.reporter.TaskFinished(s.def.Name, task, err, time.Since(start))
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.runner.RunTask(ctx, task, batch)
}
