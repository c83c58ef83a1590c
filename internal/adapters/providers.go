package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/solwatch/internal/adapters/forge"
	"github.com/trebuchet-org/solwatch/internal/adapters/fs"
	"github.com/trebuchet-org/solwatch/internal/adapters/interactive"
	"github.com/trebuchet-org/solwatch/internal/config"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// ProvideCompilerTable exposes the engine's compiler table
func ProvideCompilerTable(engine *config.Engine) *config.CompilerTable {
	return engine.Compilers
}

// ProvideNetworkRegistry exposes the engine's network registry
func ProvideNetworkRegistry(engine *config.Engine) *config.NetworkRegistry {
	return engine.Networks
}

// ProvideAccountResolver exposes the engine's account resolver
func ProvideAccountResolver(engine *config.Engine) *config.AccountResolver {
	return engine.Accounts
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewSourceListerAdapter,
	wire.Bind(new(usecase.SourceLister), new(*fs.SourceListerAdapter)),

	fs.NewArtifactMeasurerAdapter,
	wire.Bind(new(usecase.SizeMeasurer), new(*fs.ArtifactMeasurerAdapter)),
)

// ForgeSet provides subprocess-based task implementations
var ForgeSet = wire.NewSet(
	forge.NewForgeAdapter,
	wire.Bind(new(usecase.Compiler), new(*forge.ForgeAdapter)),
	wire.Bind(new(usecase.TestRunner), new(*forge.ForgeAdapter)),
	wire.Bind(new(usecase.BindingGenerator), new(*forge.ForgeAdapter)),
	wire.Bind(new(usecase.Deployer), new(*forge.ForgeAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.NetworkSelector), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides the resolution tables
var ConfigSet = wire.NewSet(
	ProvideCompilerTable,
	wire.Bind(new(usecase.CompilerResolver), new(*config.CompilerTable)),

	ProvideNetworkRegistry,
	wire.Bind(new(usecase.NetworkRegistry), new(*config.NetworkRegistry)),

	ProvideAccountResolver,
	wire.Bind(new(usecase.AccountResolver), new(*config.AccountResolver)),
	wire.Bind(new(usecase.RoleLister), new(*config.AccountResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ForgeSet,
	InteractiveSet,
	ConfigSet,
)
