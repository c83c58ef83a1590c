package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// GenerateBindings runs the typed-binding generator over compiled artifacts
type GenerateBindings struct {
	cfg       *config.RuntimeConfig
	generator BindingGenerator
	log       *slog.Logger
}

// NewGenerateBindings creates a new GenerateBindings use case
func NewGenerateBindings(cfg *config.RuntimeConfig, generator BindingGenerator, log *slog.Logger) *GenerateBindings {
	return &GenerateBindings{
		cfg:       cfg,
		generator: generator,
		log:       log.With("component", "GenerateBindings"),
	}
}

// OutDir returns the absolute bindings directory
func (uc *GenerateBindings) OutDir() string {
	dir := uc.cfg.Project.Typechain.OutDir
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(uc.cfg.ProjectRoot, dir)
}

// Run executes the use case
func (uc *GenerateBindings) Run(ctx context.Context, artifacts ArtifactSet) error {
	tc := uc.cfg.Project.Typechain
	if !tc.Enabled() {
		return &domain.TaskError{Task: config.TaskTypechain, Err: fmt.Errorf("%w: typechain target is not configured", domain.ErrGeneration)}
	}

	uc.log.Debug("generating bindings", "target", tc.Target, "out", uc.OutDir())
	if err := uc.generator.GenerateBindings(ctx, artifacts, tc.Target, uc.OutDir()); err != nil {
		return &domain.TaskError{Task: config.TaskTypechain, Err: fmt.Errorf("%w: %v", domain.ErrGeneration, err)}
	}
	return nil
}
