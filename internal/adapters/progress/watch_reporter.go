package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/trebuchet-org/solwatch/internal/watch"
)

var (
	scopeColor = color.New(color.FgCyan, color.Bold)
	okColor    = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
	faintColor = color.New(color.Faint)
)

// WatchReporter prints one line per run, and per task for verbose scopes.
// Scopes report from their own goroutines, so writes are serialized.
type WatchReporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWatchReporter creates a reporter writing to stdout
func NewWatchReporter() *WatchReporter {
	return &WatchReporter{out: os.Stdout}
}

// NewWatchReporterTo creates a reporter writing to w
func NewWatchReporterTo(w io.Writer) *WatchReporter {
	return &WatchReporter{out: w}
}

var _ watch.Reporter = (*WatchReporter)(nil)

func (r *WatchReporter) RunStarted(scope string, batch watch.Batch) {
	r.printf("%s %s %s\n", scopeColor.Sprintf("[%s]", scope), "changed:", faintColor.Sprint(summarizePaths(batch.Paths)))
}

func (r *WatchReporter) RunFinished(scope string, err error, duration time.Duration) {
	if err != nil {
		r.printf("%s %s %v\n", scopeColor.Sprintf("[%s]", scope), failColor.Sprint("✗ failed:"), err)
		return
	}
	r.printf("%s %s\n", scopeColor.Sprintf("[%s]", scope), okColor.Sprintf("✓ done in %s", duration.Round(time.Millisecond)))
}

func (r *WatchReporter) TaskStarted(scope, task string) {
	r.printf("%s   → %s\n", scopeColor.Sprintf("[%s]", scope), task)
}

func (r *WatchReporter) TaskFinished(scope, task string, err error, duration time.Duration) {
	status := okColor.Sprint("ok")
	if err != nil {
		status = failColor.Sprint("failed")
	}
	r.printf("%s   ← %s %s %s\n", scopeColor.Sprintf("[%s]", scope), task, status, faintColor.Sprint(duration.Round(time.Millisecond)))
}

func (r *WatchReporter) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

func summarizePaths(paths []string) string {
	switch len(paths) {
	case 0:
		return "(none)"
	case 1:
		return paths[0]
	default:
		return fmt.Sprintf("%s and %d more", paths[0], len(paths)-1)
	}
}
