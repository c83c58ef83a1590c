package config

import (
	"log/slog"

	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// Engine bundles the resolution tables built from one project file
type Engine struct {
	Project   *config.ProjectConfig
	Compilers *CompilerTable
	Networks  *NetworkRegistry
	Accounts  *AccountResolver
}

// NewEngine builds every table, failing on the first load-time error
func NewEngine(project *config.ProjectConfig, log *slog.Logger) (*Engine, error) {
	overrides := make([]config.CompilerOverride, 0, len(project.Solidity.Overrides))
	for p, profile := range project.Solidity.Overrides {
		overrides = append(overrides, config.CompilerOverride{Path: p, Profile: profile})
	}

	compilers, err := NewCompilerTable(project.Solidity.Compilers, overrides)
	if err != nil {
		return nil, err
	}

	networks, err := NewNetworkRegistry(project.Networks, log)
	if err != nil {
		return nil, err
	}

	return &Engine{
		Project:   project,
		Compilers: compilers,
		Networks:  networks,
		Accounts:  NewAccountResolver(project.NamedAccounts),
	}, nil
}
