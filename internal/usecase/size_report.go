package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/sizegate"
)

// SizeReport measures compiled contracts and applies the size gate
type SizeReport struct {
	measurer SizeMeasurer
	gate     *sizegate.Gate
	log      *slog.Logger
}

// NewSizeReport creates a new SizeReport use case
func NewSizeReport(measurer SizeMeasurer, gate *sizegate.Gate, log *slog.Logger) *SizeReport {
	return &SizeReport{
		measurer: measurer,
		gate:     gate,
		log:      log.With("component", "SizeReport"),
	}
}

// Run executes the use case. The report is returned even when strict mode fails it.
func (uc *SizeReport) Run(ctx context.Context, artifacts ArtifactSet) (*sizegate.Report, error) {
	measurements, err := uc.measurer.Measure(ctx, artifacts)
	if err != nil {
		return nil, fmt.Errorf("failed to measure contracts in %s: %w", artifacts.Dir, err)
	}
	uc.log.Debug("measured contracts", "count", len(measurements))

	report, err := uc.gate.Apply(measurements)
	if err != nil {
		return report, &domain.TaskError{Task: config.TaskSize, Err: err}
	}
	return report, nil
}
