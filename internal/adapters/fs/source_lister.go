package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// SourceListerAdapter lists Solidity sources under the project's source directory
type SourceListerAdapter struct {
	root    string
	sources string
}

// NewSourceListerAdapter creates a new source lister
func NewSourceListerAdapter(cfg *config.RuntimeConfig) *SourceListerAdapter {
	return &SourceListerAdapter{
		root:    cfg.ProjectRoot,
		sources: cfg.Project.Sources,
	}
}

var _ usecase.SourceLister = (*SourceListerAdapter)(nil)

// ListSources returns repository-relative, slash-separated .sol paths in lexical order
func (a *SourceListerAdapter) ListSources(ctx context.Context) ([]string, error) {
	dir := a.sources
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(a.root, dir)
	}

	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == dir {
				return filepath.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".") && p != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != ".sol" {
			return nil
		}
		rel, err := filepath.Rel(a.root, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
