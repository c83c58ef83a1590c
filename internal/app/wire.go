//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/solwatch/internal/adapters"
	"github.com/trebuchet-org/solwatch/internal/config"
	"github.com/trebuchet-org/solwatch/internal/logging"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		logging.LoggingSet,

		// Configuration
		config.Provider,
		config.ProvideEngine,

		// Adapters
		adapters.AllAdapters,
		ProvideSizeGate,

		// Use cases
		usecase.NewSizeReport,
		usecase.NewGenerateBindings,
		usecase.NewBuild,
		usecase.NewRunTests,
		usecase.NewDeploy,
		usecase.NewListNetworks,
		usecase.NewShowCompilers,
		usecase.NewResolveAccount,
		usecase.NewPipeline,
		usecase.NewWatchProject,

		// App
		NewApp,
	)
	return nil, nil
}
