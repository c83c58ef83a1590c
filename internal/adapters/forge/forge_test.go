package forge

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

func newTestForgeAdapter(t *testing.T, tasks map[string]config.TaskCommand) *ForgeAdapter {
	cfg := &config.RuntimeConfig{
		ProjectRoot: t.TempDir(),
		Project:     &config.ProjectConfig{Tasks: tasks},
	}
	return NewForgeAdapter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func baseDeployRequest() usecase.DeployRequest {
	return usecase.DeployRequest{
		Network: config.NetworkProfile{
			Name:    "baobab",
			URL:     "https://api.baobab.klaytn.net:8651",
			ChainID: 1001,
		},
		Signer: &config.Signer{
			Role:       "deployer",
			Network:    "baobab",
			Address:    common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"),
			Credential: "0x0000000000000000000000000000000000000000000000000000000000000001",
		},
		Persist: true,
	}
}

func TestCompileArgs(t *testing.T) {
	tests := []struct {
		name   string
		bucket config.CompileBucket
		want   []string
	}{
		{
			name: "default pool lets the compiler pick by pragma",
			bucket: config.CompileBucket{
				Selection: config.CompilerSelection{Profiles: []config.CompilerProfile{{Version: "0.5.6"}, {Version: "0.8.10"}}},
				Paths:     []string{"contracts/A.sol", "contracts/B.sol"},
			},
			want: []string{"contracts/A.sol", "contracts/B.sol"},
		},
		{
			name: "default pool forwards shared settings",
			bucket: config.CompileBucket{
				Selection: config.CompilerSelection{Profiles: []config.CompilerProfile{
					{Version: "0.8.10", EVMVersion: "london", Optimizer: config.OptimizerSettings{Enabled: true, Runs: 200}},
					{Version: "0.8.20", EVMVersion: "london", Optimizer: config.OptimizerSettings{Enabled: true, Runs: 200}},
				}},
				Paths: []string{"contracts/A.sol"},
			},
			want: []string{"--evm-version", "london", "--optimize", "--optimizer-runs", "200", "contracts/A.sol"},
		},
		{
			name: "default pool drops settings its entries disagree on",
			bucket: config.CompileBucket{
				Selection: config.CompilerSelection{Profiles: []config.CompilerProfile{
					{Version: "0.5.6", EVMVersion: "constantinople", Optimizer: config.OptimizerSettings{Enabled: true, Runs: 1000}},
					{Version: "0.8.10", Optimizer: config.OptimizerSettings{Enabled: true, Runs: 1000}},
				}},
				Paths: []string{"contracts/A.sol"},
			},
			want: []string{"--optimize", "--optimizer-runs", "1000", "contracts/A.sol"},
		},
		{
			name: "override pins version, evm and optimizer",
			bucket: config.CompileBucket{
				Selection: config.CompilerSelection{
					Overridden: true,
					Profiles: []config.CompilerProfile{{
						Version:    "0.5.16",
						EVMVersion: "istanbul",
						Optimizer:  config.OptimizerSettings{Enabled: true, Runs: 1000},
					}},
				},
				Paths: []string{"contracts/Timelock.sol"},
			},
			want: []string{"--use", "0.5.16", "--evm-version", "istanbul", "--optimize", "--optimizer-runs", "1000", "contracts/Timelock.sol"},
		},
		{
			name: "override without optimizer",
			bucket: config.CompileBucket{
				Selection: config.CompilerSelection{Overridden: true, Profiles: []config.CompilerProfile{{Version: "0.5.14"}}},
				Paths:     []string{"contracts/ClsToken.sol"},
			},
			want: []string{"--use", "0.5.14", "contracts/ClsToken.sol"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompileArgs(tt.bucket))
		})
	}
}

func TestPoolSettings(t *testing.T) {
	shared, conflicts := PoolSettings(nil)
	assert.Equal(t, config.CompilerProfile{}, shared)
	assert.Empty(t, conflicts)

	shared, conflicts = PoolSettings([]config.CompilerProfile{
		{Version: "0.5.6", EVMVersion: "constantinople", Optimizer: config.OptimizerSettings{Enabled: true, Runs: 1000}},
		{Version: "0.8.10", EVMVersion: "london"},
		{Version: "0.8.20", EVMVersion: "paris"},
	})
	assert.Equal(t, config.CompilerProfile{}, shared)
	assert.Equal(t, []string{"evm_version", "optimizer"}, conflicts)
}

func TestStreamsOutput(t *testing.T) {
	f := newTestForgeAdapter(t, nil)
	ctx := context.Background()

	assert.False(t, f.streams(ctx))
	assert.True(t, f.streams(usecase.WithStreamedOutput(ctx)), "verbose callers stream")

	f.cfg.Debug = true
	assert.True(t, f.streams(ctx))
}

func TestDeployArgsNeverCarryCredentials(t *testing.T) {
	req := baseDeployRequest()

	args := DeployArgs(req)
	assert.Equal(t, []string{
		"--rpc-url", "https://api.baobab.klaytn.net:8651",
		"--broadcast",
		"--sender", "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
	}, args)
	assert.NotContains(t, strings.Join(args, " "), req.Signer.Credential)

	env := DeployEnv(req)
	assert.Equal(t, req.Signer.Credential, env["PRIVATE_KEY"])
	assert.Equal(t, "baobab", env["SOLWATCH_NETWORK"])
	assert.Equal(t, "1001", env["SOLWATCH_CHAIN_ID"])
	assert.Equal(t, "true", env["SOLWATCH_SAVE_DEPLOYMENTS"])
}

func TestDeployArgsAddressSigner(t *testing.T) {
	req := baseDeployRequest()
	req.Signer.Credential = ""
	req.Persist = false

	assert.Contains(t, DeployArgs(req), "--unlocked")
	env := DeployEnv(req)
	_, ok := env["PRIVATE_KEY"]
	assert.False(t, ok)
	assert.Equal(t, "false", env["SOLWATCH_SAVE_DEPLOYMENTS"])
}

func TestBindingArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"--target", "ethers-v5", "--out-dir", "/p/typechain", "/p/artifacts/**/*.json"},
		BindingArgs("/p/artifacts", "ethers-v5", "/p/typechain"),
	)
}

func TestRunUsesTaskOverrides(t *testing.T) {
	ctx := context.Background()

	t.Run("deploy receives args and environment", func(t *testing.T) {
		f := newTestForgeAdapter(t, map[string]config.TaskCommand{
			config.TaskDeploy: {
				Command: []string{"sh", "-c", `echo "net=$SOLWATCH_NETWORK mode=$MODE args=$*"`, "deploy"},
				Env:     map[string]string{"MODE": "ci"},
			},
		})

		record, err := f.Deploy(ctx, baseDeployRequest())
		require.NoError(t, err)
		assert.Contains(t, record.Output, "net=baobab")
		assert.Contains(t, record.Output, "mode=ci")
		assert.Contains(t, record.Output, "--rpc-url https://api.baobab.klaytn.net:8651")
		assert.True(t, record.Persisted)
		assert.Equal(t, uint64(1001), record.ChainID)
	})

	t.Run("failure carries the command output", func(t *testing.T) {
		f := newTestForgeAdapter(t, map[string]config.TaskCommand{
			config.TaskCompile: {Command: []string{"sh", "-c", "echo 'Error: Source file requires different compiler version' >&2; exit 1", "build"}},
		})

		err := f.Compile(ctx, config.CompileBucket{Paths: []string{"contracts/A.sol"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sh failed")
		assert.Contains(t, err.Error(), "requires different compiler version")
	})

	t.Run("test report keeps output", func(t *testing.T) {
		f := newTestForgeAdapter(t, map[string]config.TaskCommand{
			config.TaskTest: {Command: []string{"sh", "-c", "echo '[PASS] testDeposit()'"}},
		})

		report, err := f.Test(ctx, usecase.ArtifactSet{})
		require.NoError(t, err)
		assert.Contains(t, report.Output, "[PASS] testDeposit()")
	})

	t.Run("cancelled context stops the command", func(t *testing.T) {
		f := newTestForgeAdapter(t, map[string]config.TaskCommand{
			config.TaskTest: {Command: []string{"sleep", "10"}},
		})

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := f.Test(cctx, usecase.ArtifactSet{})
		assert.Error(t, err)
	})
}

func TestEnvListIsSorted(t *testing.T) {
	assert.Equal(t, []string{"A=1", "B=2", "C=3"}, envList(map[string]string{"C": "3", "A": "1", "B": "2"}))
	assert.Empty(t, envList(nil))
}
