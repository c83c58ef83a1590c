package usecase_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/sizegate"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		ProjectRoot: "/project",
		Project: &config.ProjectConfig{
			Sources:   "contracts",
			Artifacts: "artifacts",
			Typechain: config.TypechainConfig{OutDir: "typechain"},
		},
	}
}

// MockCompilerResolver is a mock implementation of CompilerResolver
type MockCompilerResolver struct {
	mock.Mock
}

func (m *MockCompilerResolver) Resolve(path string) config.CompilerSelection {
	return m.Called(path).Get(0).(config.CompilerSelection)
}

func (m *MockCompilerResolver) Plan(paths []string) []config.CompileBucket {
	return m.Called(paths).Get(0).([]config.CompileBucket)
}

func (m *MockCompilerResolver) Defaults() []config.CompilerProfile {
	return m.Called().Get(0).([]config.CompilerProfile)
}

func (m *MockCompilerResolver) Overrides() []config.CompilerOverride {
	return m.Called().Get(0).([]config.CompilerOverride)
}

// MockNetworkRegistry is a mock implementation of NetworkRegistry
type MockNetworkRegistry struct {
	mock.Mock
}

func (m *MockNetworkRegistry) Get(name string) (config.NetworkProfile, error) {
	args := m.Called(name)
	return args.Get(0).(config.NetworkProfile), args.Error(1)
}

func (m *MockNetworkRegistry) FilterByTag(tag string) []config.NetworkProfile {
	return m.Called(tag).Get(0).([]config.NetworkProfile)
}

func (m *MockNetworkRegistry) All() []config.NetworkProfile {
	return m.Called().Get(0).([]config.NetworkProfile)
}

func (m *MockNetworkRegistry) Credentials(name string) ([]string, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockAccountResolver is a mock implementation of AccountResolver
type MockAccountResolver struct {
	mock.Mock
}

func (m *MockAccountResolver) Resolve(role, network string) (config.AccountRef, error) {
	args := m.Called(role, network)
	return args.Get(0).(config.AccountRef), args.Error(1)
}

func (m *MockAccountResolver) Signer(role, network string, credentials []string) (*config.Signer, error) {
	args := m.Called(role, network, credentials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.Signer), args.Error(1)
}

// MockSourceLister is a mock implementation of SourceLister
type MockSourceLister struct {
	mock.Mock
}

func (m *MockSourceLister) ListSources(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCompiler is a mock implementation of Compiler
type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) Compile(ctx context.Context, bucket config.CompileBucket) error {
	return m.Called(ctx, bucket).Error(0)
}

// MockTestRunner is a mock implementation of TestRunner
type MockTestRunner struct {
	mock.Mock
}

func (m *MockTestRunner) Test(ctx context.Context, artifacts usecase.ArtifactSet) (*usecase.TestReport, error) {
	args := m.Called(ctx, artifacts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TestReport), args.Error(1)
}

// MockSizeMeasurer is a mock implementation of SizeMeasurer
type MockSizeMeasurer struct {
	mock.Mock
}

func (m *MockSizeMeasurer) Measure(ctx context.Context, artifacts usecase.ArtifactSet) ([]sizegate.Measurement, error) {
	args := m.Called(ctx, artifacts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sizegate.Measurement), args.Error(1)
}

// MockBindingGenerator is a mock implementation of BindingGenerator
type MockBindingGenerator struct {
	mock.Mock
}

func (m *MockBindingGenerator) GenerateBindings(ctx context.Context, artifacts usecase.ArtifactSet, target, outDir string) error {
	return m.Called(ctx, artifacts, target, outDir).Error(0)
}

// MockDeployer is a mock implementation of Deployer
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeploymentRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeploymentRecord), args.Error(1)
}

// MockNetworkSelector is a mock implementation of NetworkSelector
type MockNetworkSelector struct {
	mock.Mock
}

func (m *MockNetworkSelector) SelectNetwork(ctx context.Context, networks []config.NetworkProfile) (string, error) {
	args := m.Called(ctx, networks)
	return args.String(0), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}
