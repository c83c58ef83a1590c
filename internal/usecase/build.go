package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/sizegate"
)

// BuildParams contains parameters for a build
type BuildParams struct {
	// Paths limits the build to these sources; empty means every source
	Paths []string
	// Network is validated up front when set
	Network string
	// SkipSizeGate disables the automatic size check
	SkipSizeGate bool
}

// BuildResult contains the result of a build
type BuildResult struct {
	Network    *config.NetworkProfile
	Buckets    []config.CompileBucket
	Artifacts  ArtifactSet
	SizeReport *sizegate.Report
	Bindings   bool
}

// Build resolves compiler profiles, compiles each bucket and runs the
// post-compile consumers the project enables
type Build struct {
	cfg       *config.RuntimeConfig
	compilers CompilerResolver
	networks  NetworkRegistry
	sources   SourceLister
	compiler  Compiler
	sizes     *SizeReport
	bindings  *GenerateBindings
	sink      ProgressSink
	log       *slog.Logger
}

// NewBuild creates a new Build use case
func NewBuild(
	cfg *config.RuntimeConfig,
	compilers CompilerResolver,
	networks NetworkRegistry,
	sources SourceLister,
	compiler Compiler,
	sizes *SizeReport,
	bindings *GenerateBindings,
	sink ProgressSink,
	log *slog.Logger,
) *Build {
	return &Build{
		cfg:       cfg,
		compilers: compilers,
		networks:  networks,
		sources:   sources,
		compiler:  compiler,
		sizes:     sizes,
		bindings:  bindings,
		sink:      sink,
		log:       log.With("component", "Build"),
	}
}

// Run executes the use case
func (uc *Build) Run(ctx context.Context, params BuildParams) (*BuildResult, error) {
	result := &BuildResult{}

	if params.Network != "" {
		network, err := uc.networks.Get(params.Network)
		if err != nil {
			return nil, err
		}
		result.Network = &network
	}

	paths := params.Paths
	if len(paths) == 0 {
		var err error
		if paths, err = uc.sources.ListSources(ctx); err != nil {
			return nil, fmt.Errorf("failed to list sources: %w", err)
		}
	}

	result.Buckets = uc.compilers.Plan(paths)
	result.Artifacts = ArtifactSet{
		Dir:     ArtifactDir(uc.cfg),
		Buckets: result.Buckets,
	}

	for i, bucket := range result.Buckets {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "compile",
			Current: i + 1,
			Total:   len(result.Buckets),
			Message: describeBucket(bucket),
			Spinner: true,
		})
		uc.log.Debug("compiling bucket", "selection", bucket.Selection.Key(), "paths", len(bucket.Paths))

		if err := uc.compiler.Compile(ctx, bucket); err != nil {
			return result, &domain.TaskError{Task: config.TaskCompile, Err: fmt.Errorf("%w: %s: %v", domain.ErrCompile, describeBucket(bucket), err)}
		}
	}

	if uc.cfg.Project.ContractSizer.RunOnCompile && !params.SkipSizeGate {
		report, err := uc.sizes.Run(ctx, result.Artifacts)
		result.SizeReport = report
		if err != nil {
			return result, err
		}
	}

	if uc.cfg.Project.Typechain.Enabled() {
		if err := uc.bindings.Run(ctx, result.Artifacts); err != nil {
			return result, err
		}
		result.Bindings = true
	}

	return result, nil
}

func describeBucket(b config.CompileBucket) string {
	if b.Selection.Overridden {
		return fmt.Sprintf("%s [%d file(s)]", b.Selection.Profiles[0], len(b.Paths))
	}
	return fmt.Sprintf("default pool (%d compilers) [%d file(s)]", len(b.Selection.Profiles), len(b.Paths))
}

// ArtifactDir returns the absolute artifact directory of the project
func ArtifactDir(cfg *config.RuntimeConfig) string {
	dir := cfg.Project.Artifacts
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(cfg.ProjectRoot, dir)
}
