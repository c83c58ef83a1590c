package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/watch"
)

// Pipeline maps watch task names onto use cases
type Pipeline struct {
	cfg      *config.RuntimeConfig
	build    *Build
	tests    *RunTests
	sizes    *SizeReport
	bindings *GenerateBindings
	deploy   *Deploy
	log      *slog.Logger
}

var _ watch.TaskRunner = (*Pipeline)(nil)

// NewPipeline creates a new Pipeline
func NewPipeline(
	cfg *config.RuntimeConfig,
	build *Build,
	tests *RunTests,
	sizes *SizeReport,
	bindings *GenerateBindings,
	deploy *Deploy,
	log *slog.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		build:    build,
		tests:    tests,
		sizes:    sizes,
		bindings: bindings,
		deploy:   deploy,
		log:      log.With("component", "Pipeline"),
	}
}

// RunTask runs a single task for a watch batch
func (p *Pipeline) RunTask(ctx context.Context, task string, batch watch.Batch) error {
	p.log.Debug("running task", "task", task, "scope", batch.Scope, "changed", len(batch.Paths))
	if batch.Verbose {
		ctx = WithStreamedOutput(ctx)
	}

	switch task {
	case config.TaskCompile:
		// imports cross file boundaries, so every source is recompiled
		_, err := p.build.Run(ctx, BuildParams{})
		return err
	case config.TaskTest:
		_, err := p.tests.Run(ctx)
		return err
	case config.TaskSize:
		_, err := p.sizes.Run(ctx, ArtifactSet{Dir: ArtifactDir(p.cfg)})
		return err
	case config.TaskTypechain:
		return p.bindings.Run(ctx, ArtifactSet{Dir: ArtifactDir(p.cfg)})
	case config.TaskDeploy:
		// a watch run can't stop for a prompt
		_, err := p.deploy.Run(ctx, DeployParams{NonInteractive: true})
		return err
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownTask, task)
	}
}
