package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/watch"
)

// WatchProjectParams contains parameters for watching
type WatchProjectParams struct {
	// Scopes selects watch scopes by name; empty means all
	Scopes   []string
	Reporter watch.Reporter
}

// WatchProject wires every configured watch scope to the pipeline and
// blocks until the context is cancelled
type WatchProject struct {
	cfg      *config.RuntimeConfig
	pipeline *Pipeline
	bindings *GenerateBindings
	log      *slog.Logger
}

// NewWatchProject creates a new WatchProject use case
func NewWatchProject(cfg *config.RuntimeConfig, pipeline *Pipeline, bindings *GenerateBindings, log *slog.Logger) *WatchProject {
	return &WatchProject{
		cfg:      cfg,
		pipeline: pipeline,
		bindings: bindings,
		log:      log.With("component", "WatchProject"),
	}
}

// Scopes builds the selected scopes, sharing one lock per output directory
func (uc *WatchProject) Scopes(params WatchProjectParams) ([]*watch.Scope, error) {
	locks := watch.NewOutputLocks()
	outDir := ArtifactDir(uc.cfg)

	var scopes []*watch.Scope
	for _, def := range uc.cfg.Project.Watchers {
		if len(params.Scopes) > 0 && !slices.Contains(params.Scopes, def.Name) {
			continue
		}
		scopes = append(scopes, watch.NewScope(def, watch.ScopeOptions{
			Runner:    uc.pipeline,
			Reporter:  params.Reporter,
			Locks:     locks,
			OutputDir: outDir,
			Log:       uc.log,
		}))
	}

	for _, name := range params.Scopes {
		if !slices.ContainsFunc(uc.cfg.Project.Watchers, func(w config.WatchScope) bool { return w.Name == name }) {
			return nil, fmt.Errorf("unknown watch scope %q", name)
		}
	}
	if len(scopes) == 0 {
		return nil, fmt.Errorf("no watch scopes configured")
	}
	return scopes, nil
}

// Run executes the use case
func (uc *WatchProject) Run(ctx context.Context, params WatchProjectParams) error {
	scopes, err := uc.Scopes(params)
	if err != nil {
		return err
	}

	ignore := []string{ArtifactDir(uc.cfg)}
	if uc.cfg.Project.Typechain.Enabled() {
		ignore = append(ignore, uc.bindings.OutDir())
	}

	for _, s := range scopes {
		def := s.Definition()
		uc.log.Info("watching", "scope", def.Name, "files", def.Files, "tasks", def.Tasks, "debounce", def.Debounce)
	}

	w := watch.NewWatcher(uc.cfg.ProjectRoot, scopes, ignore, uc.log)
	return w.Run(ctx)
}
