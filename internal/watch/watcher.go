package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ignoredAnywhere are directory names skipped at any depth
var ignoredAnywhere = []string{".git", "node_modules"}

// defaultIgnored are root-relative build output directories
var defaultIgnored = []string{"cache", "out", "artifacts", "typechain"}

// Watcher feeds file-system events into independent scopes
type Watcher struct {
	root    string
	scopes  []*Scope
	ignored []string
	log     *slog.Logger

	matchers map[*Scope][]pathMatcher
}

// NewWatcher creates a watcher for scopes whose file entries are relative to root.
// ignore lists extra directories (e.g. the artifact dir) whose events are dropped.
func NewWatcher(root string, scopes []*Scope, ignore []string, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	w := &Watcher{
		root:     root,
		scopes:   scopes,
		log:      log.With("component", "watcher"),
		matchers: make(map[*Scope][]pathMatcher, len(scopes)),
	}
	w.ignored = append(w.ignored, defaultIgnored...)
	for _, dir := range ignore {
		if dir == "" {
			continue
		}
		if filepath.IsAbs(dir) {
			if rel, err := filepath.Rel(root, dir); err == nil {
				dir = rel
			}
		}
		w.ignored = append(w.ignored, filepath.Clean(dir))
	}
	for _, s := range scopes {
		for _, f := range s.Definition().Files {
			w.matchers[s] = append(w.matchers[s], newPathMatcher(root, f))
		}
	}
	return w
}

// Run watches until ctx is done. Every scope runs its own state machine.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	for _, s := range w.scopes {
		for _, m := range w.matchers[s] {
			if err := w.addRecursive(fsw, m.watchRoot()); err != nil {
				return fmt.Errorf("scope %s: %w", s.Name(), err)
			}
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range w.scopes {
		wg.Add(1)
		go func(s *Scope) {
			defer wg.Done()
			_ = s.Run(ctx)
		}(s)
	}
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("file watcher closed")
			}
			w.handle(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("file watcher closed")
			}
			w.log.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op == fsnotify.Chmod || w.isIgnored(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(fsw, event.Name); err != nil {
				w.log.Warn("failed to watch new directory", "dir", event.Name, "error", err)
			}
		}
	}

	w.Dispatch(event.Name)
}

// Dispatch routes a changed path to every scope watching it
func (w *Watcher) Dispatch(path string) {
	for _, s := range w.scopes {
		for _, m := range w.matchers[s] {
			if m.matches(path) {
				w.log.Debug("change", "scope", s.Name(), "path", path)
				s.Notify(path)
				break
			}
		}
	}
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			w.log.Warn("watched path does not exist", "path", root)
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return fsw.Add(filepath.Dir(root))
	}

	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.isIgnored(p) {
			return filepath.SkipDir
		}
		return fsw.Add(p)
	})
}

func (w *Watcher) isIgnored(p string) bool {
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, ig := range w.ignored {
		ig = filepath.ToSlash(ig)
		if rel == ig || strings.HasPrefix(rel, ig+"/") {
			return true
		}
	}
	for _, seg := range strings.Split(rel, "/") {
		if slices.Contains(ignoredAnywhere, seg) {
			return true
		}
	}
	return false
}

// pathMatcher matches changed paths against one watched entry: a file,
// a directory (recursive) or a glob
type pathMatcher struct {
	pattern string
	glob    bool
}

func newPathMatcher(root, entry string) pathMatcher {
	p := entry
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	p = filepath.Clean(p)
	return pathMatcher{pattern: p, glob: strings.ContainsAny(entry, "*?[")}
}

// watchRoot is the deepest directory without glob metacharacters
func (m pathMatcher) watchRoot() string {
	if !m.glob {
		return m.pattern
	}
	parts := strings.Split(m.pattern, string(filepath.Separator))
	var static []string
	for _, part := range parts {
		if strings.ContainsAny(part, "*?[") {
			break
		}
		static = append(static, part)
	}
	root := strings.Join(static, string(filepath.Separator))
	if root == "" {
		return string(filepath.Separator)
	}
	return root
}

func (m pathMatcher) matches(p string) bool {
	p = filepath.Clean(p)
	if !m.glob {
		return p == m.pattern || strings.HasPrefix(p, m.pattern+string(filepath.Separator))
	}
	// a glob matches the path itself or any of its parent directories
	for cur := p; ; cur = filepath.Dir(cur) {
		if ok, _ := filepath.Match(m.pattern, cur); ok {
			return true
		}
		if parent := filepath.Dir(cur); parent == cur {
			return false
		}
	}
}
