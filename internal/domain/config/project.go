package config

// TaskCommand overrides the external command used for a task
type TaskCommand struct {
	Command []string          `toml:"command" yaml:"command"`
	Env     map[string]string `toml:"env,omitempty" yaml:"env,omitempty"`
}

// ProjectConfig is the fully decoded and validated project file.
// It is built once at startup and treated as read-only afterwards.
type ProjectConfig struct {
	Path string

	Solidity      SolidityConfig
	Networks      []NetworkEntry
	Watchers      []WatchScope
	ContractSizer SizeGatePolicy
	Typechain     TypechainConfig
	NamedAccounts map[string]AccountBinding
	Tasks         map[string]TaskCommand

	// Paths
	Sources   string
	Tests     string
	Artifacts string
}
