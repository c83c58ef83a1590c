package config

import "time"

// Task names understood by the pipeline
const (
	TaskCompile   = "compile"
	TaskTest      = "test"
	TaskSize      = "size"
	TaskTypechain = "typechain"
	TaskDeploy    = "deploy"
)

// KnownTasks lists every task a watch scope may reference
var KnownTasks = []string{TaskCompile, TaskTest, TaskSize, TaskTypechain, TaskDeploy}

// DefaultDebounce is used when a scope doesn't set its own window
const DefaultDebounce = 250 * time.Millisecond

// WatchScope is a named task sequence triggered by changes under Files
type WatchScope struct {
	Name     string        `toml:"-" yaml:"-"`
	Tasks    []string      `toml:"tasks" yaml:"tasks"`
	Files    []string      `toml:"files" yaml:"files"`
	Verbose  bool          `toml:"verbose" yaml:"verbose"`
	Debounce time.Duration `toml:"-" yaml:"-"`

	// DebounceMs is the raw config value for Debounce
	DebounceMs int `toml:"debounce_ms,omitempty" yaml:"debounce_ms,omitempty"`
}
