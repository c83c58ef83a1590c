package watch

import (
	"context"
	"path/filepath"
	"sync"
)

// OutputLocks serializes task sequences that share an artifact directory.
// A scope holds the lock for its whole sequence so a compile in one scope
// never overlaps a test in another reading the same artifacts.
type OutputLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewOutputLocks creates an empty lock set
func NewOutputLocks() *OutputLocks {
	return &OutputLocks{slots: make(map[string]chan struct{})}
}

// Acquire blocks until dir is free or ctx is done. The returned func releases it.
func (l *OutputLocks) Acquire(ctx context.Context, dir string) (func(), error) {
	slot := l.slot(filepath.Clean(dir))
	select {
	case slot <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-slot }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *OutputLocks) slot(dir string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[dir]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[dir] = s
	}
	return s
}
