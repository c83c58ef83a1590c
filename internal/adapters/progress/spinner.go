package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// SpinnerProgressReporter implements progress reporting with a spinner
type SpinnerProgressReporter struct {
	spinner    *spinner.Spinner
	stage      string
	stageStart time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.stage {
		r.stage = event.Stage
		r.stageStart = time.Now()
	}

	if !event.Spinner {
		r.Stop()
		return
	}
	if !r.spinner.Active() {
		r.spinner.Start()
	}
	r.spinner.Suffix = " " + r.describe(event)
}

// Stop halts the spinner if it is running
func (r *SpinnerProgressReporter) Stop() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.printPaused(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.printPaused(color.New(color.FgRed), message)
}

func (r *SpinnerProgressReporter) printPaused(c *color.Color, message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Println(message)

	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) describe(event usecase.ProgressEvent) string {
	stage := color.New(color.FgYellow).Sprint(event.Stage)
	step := ""
	if event.Total > 1 {
		step = fmt.Sprintf(" %d/%d", event.Current, event.Total)
	}
	elapsed := time.Since(r.stageStart).Round(time.Second)
	return fmt.Sprintf("%s%s %s (%s)", stage, step, event.Message, elapsed)
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
