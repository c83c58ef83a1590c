package config

// Deployment size ceilings
const (
	// MaxRuntimeSize is the EIP-170 limit on deployed bytecode
	MaxRuntimeSize = 24576
	// MaxInitcodeSize is the EIP-3860 limit on creation bytecode
	MaxInitcodeSize = 2 * MaxRuntimeSize
)

// SizeGatePolicy is the [contract_sizer] section
type SizeGatePolicy struct {
	AlphaSort         bool `toml:"alpha_sort" yaml:"alpha_sort"`
	DisambiguatePaths bool `toml:"disambiguate_paths" yaml:"disambiguate_paths"`
	RunOnCompile      bool `toml:"run_on_compile" yaml:"run_on_compile"`
	Strict            bool `toml:"strict" yaml:"strict"`
}

// TypechainConfig is the [typechain] section
type TypechainConfig struct {
	Target string `toml:"target" yaml:"target"`
	OutDir string `toml:"out_dir" yaml:"out_dir"`
}

// Enabled reports whether binding generation is configured
func (t TypechainConfig) Enabled() bool {
	return t.Target != ""
}
