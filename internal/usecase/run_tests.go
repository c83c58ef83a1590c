package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// RunTests runs the project's test suite against the current artifacts
type RunTests struct {
	cfg    *config.RuntimeConfig
	runner TestRunner
	sink   ProgressSink
	log    *slog.Logger
}

// NewRunTests creates a new RunTests use case
func NewRunTests(cfg *config.RuntimeConfig, runner TestRunner, sink ProgressSink, log *slog.Logger) *RunTests {
	return &RunTests{
		cfg:    cfg,
		runner: runner,
		sink:   sink,
		log:    log.With("component", "RunTests"),
	}
}

// Run executes the use case
func (uc *RunTests) Run(ctx context.Context) (*TestReport, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "test", Message: "running tests", Spinner: true})

	report, err := uc.runner.Test(ctx, ArtifactSet{Dir: ArtifactDir(uc.cfg)})
	if err != nil {
		return report, &domain.TaskError{Task: config.TaskTest, Err: fmt.Errorf("%w: %v", domain.ErrTestFailure, err)}
	}
	uc.log.Debug("tests passed", "duration", report.Duration)
	return report, nil
}
