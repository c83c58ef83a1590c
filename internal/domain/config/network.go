package config

import "slices"

// NetworkProfile holds everything needed to address and authenticate against one environment
type NetworkProfile struct {
	Name            string   `toml:"-" yaml:"-" json:"name"`
	URL             string   `toml:"url" yaml:"url" json:"url"`
	ChainID         uint64   `toml:"chain_id" yaml:"chain_id" json:"chainId"`
	Accounts        []string `toml:"accounts,omitempty" yaml:"accounts,omitempty" json:"-"`
	SaveDeployments bool     `toml:"save_deployments" yaml:"save_deployments" json:"saveDeployments"`
	Tags            []string `toml:"tags,omitempty" yaml:"tags,omitempty" json:"tags,omitempty"`

	// Alias marks a profile that intentionally shares its chain id with another one
	Alias bool `toml:"alias,omitempty" yaml:"alias,omitempty" json:"alias,omitempty"`
}

// HasTag reports whether the profile carries tag
func (n NetworkProfile) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// Clone returns a deep copy so callers can't mutate registry state
func (n NetworkProfile) Clone() NetworkProfile {
	n.Accounts = slices.Clone(n.Accounts)
	n.Tags = slices.Clone(n.Tags)
	return n
}

// NetworkEntry keeps the declared order of [networks.*] tables, which TOML maps lose
type NetworkEntry struct {
	Name    string
	Profile NetworkProfile
}
