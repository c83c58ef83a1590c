package fs

import (
	"context"

	"github.com/trebuchet-org/solwatch/internal/sizegate"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// ArtifactMeasurerAdapter reads contract sizes from compiled JSON artifacts
type ArtifactMeasurerAdapter struct{}

// NewArtifactMeasurerAdapter creates a new artifact measurer
func NewArtifactMeasurerAdapter() *ArtifactMeasurerAdapter {
	return &ArtifactMeasurerAdapter{}
}

var _ usecase.SizeMeasurer = (*ArtifactMeasurerAdapter)(nil)

// Measure implements usecase.SizeMeasurer
func (a *ArtifactMeasurerAdapter) Measure(ctx context.Context, artifacts usecase.ArtifactSet) ([]sizegate.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sizegate.MeasureArtifacts(artifacts.Dir)
}
