package config

import "fmt"

// OptimizerSettings mirrors solc's optimizer block
type OptimizerSettings struct {
	Enabled bool `toml:"enabled" yaml:"enabled" json:"enabled"`
	Runs    int  `toml:"runs,omitempty" yaml:"runs,omitempty" json:"runs,omitempty"`
}

// CompilerProfile is a compiler release plus target machine and optimizer settings
type CompilerProfile struct {
	Version    string            `toml:"version" yaml:"version" json:"version"`
	EVMVersion string            `toml:"evm_version,omitempty" yaml:"evm_version,omitempty" json:"evmVersion,omitempty"`
	Optimizer  OptimizerSettings `toml:"optimizer" yaml:"optimizer" json:"optimizer"`
}

// String renders the profile the way it is shown in listings, e.g. "0.5.6 (constantinople, runs=1000)"
func (p CompilerProfile) String() string {
	evm := p.EVMVersion
	if evm == "" {
		evm = "default evm"
	}
	if !p.Optimizer.Enabled {
		return fmt.Sprintf("%s (%s, optimizer off)", p.Version, evm)
	}
	return fmt.Sprintf("%s (%s, runs=%d)", p.Version, evm, p.Optimizer.Runs)
}

// Equal compares two profiles. Runs is ignored when the optimizer is disabled.
func (p CompilerProfile) Equal(o CompilerProfile) bool {
	if p.Version != o.Version || p.EVMVersion != o.EVMVersion || p.Optimizer.Enabled != o.Optimizer.Enabled {
		return false
	}
	return !p.Optimizer.Enabled || p.Optimizer.Runs == o.Optimizer.Runs
}

// CompilerOverride pins a single source file to a profile
type CompilerOverride struct {
	Path    string
	Profile CompilerProfile
}

// SolidityConfig is the [solidity] section of the project file
type SolidityConfig struct {
	Compilers []CompilerProfile          `toml:"compilers" yaml:"compilers"`
	Overrides map[string]CompilerProfile `toml:"overrides" yaml:"overrides"`
}

// CompilerSelection is the outcome of resolving a contract path.
// Overridden selections carry exactly one profile; otherwise Profiles is the
// whole default pool and the compiler picks an entry by pragma.
type CompilerSelection struct {
	Profiles   []CompilerProfile
	Overridden bool
}

// Key identifies the selection for bucketing compile invocations
func (s CompilerSelection) Key() string {
	if !s.Overridden {
		return "default"
	}
	return "override:" + s.Profiles[0].String()
}

// CompileBucket is one compile invocation: a selection and the paths it covers
type CompileBucket struct {
	Selection CompilerSelection
	Paths     []string
}
