package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/sizegate"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

var (
	pool = []config.CompilerProfile{
		{Version: "0.5.6", EVMVersion: "constantinople", Optimizer: config.OptimizerSettings{Enabled: true, Runs: 1000}},
		{Version: "0.8.10", Optimizer: config.OptimizerSettings{Enabled: true, Runs: 200}},
	}
	timelockProfile = config.CompilerProfile{Version: "0.5.16", EVMVersion: "istanbul", Optimizer: config.OptimizerSettings{Enabled: true, Runs: 1000}}

	defaultBucket = config.CompileBucket{
		Selection: config.CompilerSelection{Profiles: pool},
		Paths:     []string{"contracts/Comptroller.sol", "contracts/Vault.sol"},
	}
	timelockBucket = config.CompileBucket{
		Selection: config.CompilerSelection{Profiles: []config.CompilerProfile{timelockProfile}, Overridden: true},
		Paths:     []string{"contracts/Timelock.sol"},
	}
)

type buildFixture struct {
	cfg       *config.RuntimeConfig
	compilers *MockCompilerResolver
	networks  *MockNetworkRegistry
	sources   *MockSourceLister
	compiler  *MockCompiler
	measurer  *MockSizeMeasurer
	generator *MockBindingGenerator
	sink      *MockProgressSink
}

func newBuildFixture() *buildFixture {
	return &buildFixture{
		cfg:       testConfig(),
		compilers: new(MockCompilerResolver),
		networks:  new(MockNetworkRegistry),
		sources:   new(MockSourceLister),
		compiler:  new(MockCompiler),
		measurer:  new(MockSizeMeasurer),
		generator: new(MockBindingGenerator),
		sink:      &MockProgressSink{},
	}
}

func (f *buildFixture) build() *usecase.Build {
	log := discardLogger()
	gate := sizegate.NewGate(f.cfg.Project.ContractSizer, log)
	return usecase.NewBuild(
		f.cfg,
		f.compilers,
		f.networks,
		f.sources,
		f.compiler,
		usecase.NewSizeReport(f.measurer, gate, log),
		usecase.NewGenerateBindings(f.cfg, f.generator, log),
		f.sink,
		log,
	)
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	sources := []string{"contracts/Comptroller.sol", "contracts/Timelock.sol", "contracts/Vault.sol"}

	t.Run("compiles one invocation per bucket in plan order", func(t *testing.T) {
		f := newBuildFixture()
		f.sources.On("ListSources", ctx).Return(sources, nil)
		f.compilers.On("Plan", sources).Return([]config.CompileBucket{defaultBucket, timelockBucket})

		var order []string
		f.compiler.On("Compile", ctx, mock.Anything).Run(func(args mock.Arguments) {
			order = append(order, args.Get(1).(config.CompileBucket).Selection.Key())
		}).Return(nil)

		result, err := f.build().Run(ctx, usecase.BuildParams{})
		require.NoError(t, err)

		assert.Equal(t, []string{"default", "override:" + timelockProfile.String()}, order)
		assert.Equal(t, "/project/artifacts", result.Artifacts.Dir)
		assert.Nil(t, result.SizeReport)
		assert.False(t, result.Bindings)

		require.Len(t, f.sink.events, 2)
		assert.Equal(t, 1, f.sink.events[0].Current)
		assert.Equal(t, 2, f.sink.events[1].Total)

		f.measurer.AssertNotCalled(t, "Measure", mock.Anything, mock.Anything)
		f.generator.AssertNotCalled(t, "GenerateBindings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("explicit paths skip source listing", func(t *testing.T) {
		f := newBuildFixture()
		paths := []string{"contracts/Timelock.sol"}
		f.compilers.On("Plan", paths).Return([]config.CompileBucket{timelockBucket})
		f.compiler.On("Compile", ctx, timelockBucket).Return(nil)

		_, err := f.build().Run(ctx, usecase.BuildParams{Paths: paths})
		require.NoError(t, err)
		f.sources.AssertNotCalled(t, "ListSources", mock.Anything)
	})

	t.Run("compile failure stops and names the selection", func(t *testing.T) {
		f := newBuildFixture()
		f.sources.On("ListSources", ctx).Return(sources, nil)
		f.compilers.On("Plan", sources).Return([]config.CompileBucket{defaultBucket, timelockBucket})
		f.compiler.On("Compile", ctx, defaultBucket).Return(errors.New("pragma ^0.7.0 matches no compiler"))

		_, err := f.build().Run(ctx, usecase.BuildParams{})
		require.Error(t, err)

		var taskErr *domain.TaskError
		require.ErrorAs(t, err, &taskErr)
		assert.Equal(t, config.TaskCompile, taskErr.Task)
		assert.ErrorIs(t, err, domain.ErrCompile)
		assert.Contains(t, err.Error(), "pragma ^0.7.0")
		f.compiler.AssertNumberOfCalls(t, "Compile", 1)
	})

	t.Run("unknown network is rejected before compiling", func(t *testing.T) {
		f := newBuildFixture()
		f.networks.On("Get", "rinkeby").Return(config.NetworkProfile{}, domain.ErrUnknownNetwork)

		_, err := f.build().Run(ctx, usecase.BuildParams{Network: "rinkeby"})
		assert.ErrorIs(t, err, domain.ErrUnknownNetwork)
		f.compiler.AssertNotCalled(t, "Compile", mock.Anything, mock.Anything)
	})

	t.Run("strict size gate fails the build after compiling", func(t *testing.T) {
		f := newBuildFixture()
		f.cfg.Project.ContractSizer = config.SizeGatePolicy{RunOnCompile: true, Strict: true}
		f.sources.On("ListSources", ctx).Return(sources, nil)
		f.compilers.On("Plan", sources).Return([]config.CompileBucket{defaultBucket})
		f.compiler.On("Compile", ctx, defaultBucket).Return(nil)
		f.measurer.On("Measure", ctx, mock.Anything).Return([]sizegate.Measurement{
			{Name: "Comptroller", RuntimeSize: 30000},
			{Name: "Vault", RuntimeSize: 1000},
		}, nil)

		result, err := f.build().Run(ctx, usecase.BuildParams{})
		require.Error(t, err)

		var tooLarge domain.ContractTooLargeErr
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, "Comptroller", tooLarge.Contract)
		require.NotNil(t, result.SizeReport)
		assert.Len(t, result.SizeReport.Rows, 2)
	})

	t.Run("size gate can be skipped", func(t *testing.T) {
		f := newBuildFixture()
		f.cfg.Project.ContractSizer = config.SizeGatePolicy{RunOnCompile: true, Strict: true}
		f.sources.On("ListSources", ctx).Return(sources, nil)
		f.compilers.On("Plan", sources).Return([]config.CompileBucket{defaultBucket})
		f.compiler.On("Compile", ctx, defaultBucket).Return(nil)

		_, err := f.build().Run(ctx, usecase.BuildParams{SkipSizeGate: true})
		require.NoError(t, err)
		f.measurer.AssertNotCalled(t, "Measure", mock.Anything, mock.Anything)
	})

	t.Run("bindings follow a successful compile", func(t *testing.T) {
		f := newBuildFixture()
		f.cfg.Project.Typechain.Target = "ethers-v5"
		f.sources.On("ListSources", ctx).Return(sources, nil)
		f.compilers.On("Plan", sources).Return([]config.CompileBucket{defaultBucket})
		f.compiler.On("Compile", ctx, defaultBucket).Return(nil)
		f.generator.On("GenerateBindings", ctx, mock.Anything, "ethers-v5", "/project/typechain").Return(nil)

		result, err := f.build().Run(ctx, usecase.BuildParams{})
		require.NoError(t, err)
		assert.True(t, result.Bindings)
		f.generator.AssertExpectations(t)
	})

	t.Run("binding failure is a generation error", func(t *testing.T) {
		f := newBuildFixture()
		f.cfg.Project.Typechain.Target = "ethers-v5"
		f.sources.On("ListSources", ctx).Return(sources, nil)
		f.compilers.On("Plan", sources).Return([]config.CompileBucket{defaultBucket})
		f.compiler.On("Compile", ctx, defaultBucket).Return(nil)
		f.generator.On("GenerateBindings", ctx, mock.Anything, "ethers-v5", "/project/typechain").Return(errors.New("npx: not found"))

		_, err := f.build().Run(ctx, usecase.BuildParams{})
		assert.ErrorIs(t, err, domain.ErrGeneration)
	})
}

func TestGenerateBindingsRequiresTarget(t *testing.T) {
	cfg := testConfig()
	generator := new(MockBindingGenerator)
	uc := usecase.NewGenerateBindings(cfg, generator, discardLogger())

	err := uc.Run(context.Background(), usecase.ArtifactSet{Dir: "/project/artifacts"})
	assert.ErrorIs(t, err, domain.ErrGeneration)
	generator.AssertNotCalled(t, "GenerateBindings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunTestsWrapsFailure(t *testing.T) {
	ctx := context.Background()
	runner := new(MockTestRunner)
	runner.On("Test", ctx, usecase.ArtifactSet{Dir: "/project/artifacts"}).
		Return(&usecase.TestReport{Output: "[FAIL] testWithdraw()"}, errors.New("exit status 1"))

	report, err := usecase.NewRunTests(testConfig(), runner, &MockProgressSink{}, discardLogger()).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTestFailure)
	require.NotNil(t, report)
	assert.Contains(t, report.Output, "testWithdraw")
}
