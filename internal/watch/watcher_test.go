package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

func TestPathMatcher(t *testing.T) {
	root := "/project"

	tests := []struct {
		name      string
		entry     string
		path      string
		matches   bool
		watchRoot string
	}{
		{"directory matches nested file", "contracts", "/project/contracts/token/Token.sol", true, "/project/contracts"},
		{"directory matches itself", "contracts", "/project/contracts", true, "/project/contracts"},
		{"directory does not match sibling prefix", "contracts", "/project/contracts-old/A.sol", false, "/project/contracts"},
		{"file entry", "./foundry.toml", "/project/foundry.toml", true, "/project/foundry.toml"},
		{"glob on file name", "test/*.t.sol", "/project/test/Vault.t.sol", true, "/project/test"},
		{"glob rejects other suffix", "test/*.t.sol", "/project/test/Helper.sol", false, "/project/test"},
		{"glob on directory matches children", "lib/*", "/project/lib/forge-std/src/Test.sol", true, "/project/lib"},
		{"absolute entry", "/shared/interfaces", "/shared/interfaces/IERC20.sol", true, "/shared/interfaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPathMatcher(root, tt.entry)
			assert.Equal(t, tt.matches, m.matches(tt.path))
			assert.Equal(t, filepath.FromSlash(tt.watchRoot), m.watchRoot())
		})
	}
}

func TestWatcherDispatch(t *testing.T) {
	root := "/project"
	compilation := NewScope(config.WatchScope{Name: "compilation", Tasks: []string{"compile"}, Files: []string{"contracts"}}, ScopeOptions{})
	tests := NewScope(config.WatchScope{Name: "test", Tasks: []string{"test"}, Files: []string{"contracts", "test/*.t.sol"}}, ScopeOptions{})

	w := NewWatcher(root, []*Scope{compilation, tests}, nil, nil)

	w.Dispatch("/project/contracts/A.sol")
	assert.True(t, compilation.hasChanges())
	assert.True(t, tests.hasChanges())

	compilation.takeBatch()
	tests.takeBatch()

	w.Dispatch("/project/test/Vault.t.sol")
	assert.False(t, compilation.hasChanges())
	assert.True(t, tests.hasChanges())

	tests.takeBatch()
	w.Dispatch("/project/README.md")
	assert.False(t, compilation.hasChanges())
	assert.False(t, tests.hasChanges())
}

func TestWatcherIgnoredPaths(t *testing.T) {
	w := NewWatcher("/project", nil, []string{"/project/build/artifacts", "typechain-types"}, nil)

	tests := []struct {
		path    string
		ignored bool
	}{
		{"/project/contracts/A.sol", false},
		{"/project/out/A.sol/A.json", true},
		{"/project/cache/solidity-files-cache.json", true},
		{"/project/build/artifacts/A.json", true},
		{"/project/build/other.json", false},
		{"/project/typechain-types/index.ts", true},
		{"/project/lib/forge-std/.git/HEAD", true},
		{"/project/node_modules/@openzeppelin/contracts/token/ERC20.sol", true},
		{"/project/contracts/outbox/Outbox.sol", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ignored, w.isIgnored(tt.path), tt.path)
	}
}

func TestWatcherRunsScopeOnFileChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "contracts", "token"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "out"), 0o755))

	rec := newRecorder()
	scope := NewScope(config.WatchScope{
		Name:     "compilation",
		Tasks:    []string{"compile"},
		Files:    []string{"contracts"},
		Debounce: 20 * time.Millisecond,
	}, ScopeOptions{Runner: rec, Reporter: rec})

	w := NewWatcher(root, []*Scope{scope}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// give the watcher time to register its directories
	time.Sleep(100 * time.Millisecond)

	// output directories never trigger a run
	require.NoError(t, os.WriteFile(filepath.Join(root, "out", "A.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "contracts", "token", "Token.sol"), []byte("contract Token {}"), 0o644))

	require.Eventually(t, func() bool { return rec.runCount() >= 1 }, 5*time.Second, 10*time.Millisecond)

	_, batches, _ := rec.snapshot()
	require.NotEmpty(t, batches)
	for _, p := range batches[0].Paths {
		assert.Contains(t, p, filepath.Join("contracts", "token"))
	}
}
