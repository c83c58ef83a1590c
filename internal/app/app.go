package app

import (
	"log/slog"

	"github.com/trebuchet-org/solwatch/internal/config"
	domainconfig "github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/sizegate"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *domainconfig.RuntimeConfig
	Engine *config.Engine
	Log    *slog.Logger

	// Use cases
	Build            *usecase.Build
	RunTests         *usecase.RunTests
	SizeReport       *usecase.SizeReport
	GenerateBindings *usecase.GenerateBindings
	Deploy           *usecase.Deploy
	ListNetworks     *usecase.ListNetworks
	ShowCompilers    *usecase.ShowCompilers
	ResolveAccount   *usecase.ResolveAccount
	WatchProject     *usecase.WatchProject
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *domainconfig.RuntimeConfig,
	engine *config.Engine,
	log *slog.Logger,
	build *usecase.Build,
	runTests *usecase.RunTests,
	sizeReport *usecase.SizeReport,
	generateBindings *usecase.GenerateBindings,
	deploy *usecase.Deploy,
	listNetworks *usecase.ListNetworks,
	showCompilers *usecase.ShowCompilers,
	resolveAccount *usecase.ResolveAccount,
	watchProject *usecase.WatchProject,
) (*App, error) {
	return &App{
		Config:           cfg,
		Engine:           engine,
		Log:              log,
		Build:            build,
		RunTests:         runTests,
		SizeReport:       sizeReport,
		GenerateBindings: generateBindings,
		Deploy:           deploy,
		ListNetworks:     listNetworks,
		ShowCompilers:    showCompilers,
		ResolveAccount:   resolveAccount,
		WatchProject:     watchProject,
	}, nil
}

// ProvideSizeGate builds the size gate from the project's contract sizer policy
func ProvideSizeGate(cfg *domainconfig.RuntimeConfig, log *slog.Logger) *sizegate.Gate {
	return sizegate.NewGate(cfg.Project.ContractSizer, log)
}
