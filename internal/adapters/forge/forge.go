package forge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/creack/pty"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// Default commands per task; each can be replaced under [tasks.<name>]
var defaultCommands = map[string][]string{
	config.TaskCompile:   {"forge", "build"},
	config.TaskTest:      {"forge", "test"},
	config.TaskTypechain: {"npx", "typechain"},
	config.TaskDeploy:    {"forge", "script", "script/Deploy.s.sol"},
}

// ForgeAdapter runs the external toolchain as subprocesses
type ForgeAdapter struct {
	cfg    *config.RuntimeConfig
	log    *slog.Logger
	stdout io.Writer
}

// NewForgeAdapter creates a new forge executor
func NewForgeAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ForgeAdapter {
	return &ForgeAdapter{
		cfg:    cfg,
		log:    log.With("component", "ForgeAdapter"),
		stdout: os.Stdout,
	}
}

var (
	_ usecase.Compiler         = (*ForgeAdapter)(nil)
	_ usecase.TestRunner       = (*ForgeAdapter)(nil)
	_ usecase.BindingGenerator = (*ForgeAdapter)(nil)
	_ usecase.Deployer         = (*ForgeAdapter)(nil)
)

// Compile runs one build per bucket
func (f *ForgeAdapter) Compile(ctx context.Context, bucket config.CompileBucket) error {
	if _, conflicts := PoolSettings(bucket.Selection.Profiles); len(conflicts) > 0 {
		f.log.Warn("compiler pool entries disagree, leaving these settings to forge defaults",
			"settings", conflicts, "selection", bucket.Selection.Key())
	}
	out, err := f.run(ctx, config.TaskCompile, CompileArgs(bucket), nil)
	if err != nil {
		return withOutput(err, out)
	}
	return nil
}

// Test runs the test suite
func (f *ForgeAdapter) Test(ctx context.Context, artifacts usecase.ArtifactSet) (*usecase.TestReport, error) {
	start := time.Now()
	out, err := f.run(ctx, config.TaskTest, nil, nil)
	report := &usecase.TestReport{Output: out, Duration: time.Since(start)}
	if err != nil {
		return report, withOutput(err, out)
	}
	return report, nil
}

// GenerateBindings runs typechain over the artifact JSON files
func (f *ForgeAdapter) GenerateBindings(ctx context.Context, artifacts usecase.ArtifactSet, target, outDir string) error {
	out, err := f.run(ctx, config.TaskTypechain, BindingArgs(artifacts.Dir, target, outDir), nil)
	if err != nil {
		return withOutput(err, out)
	}
	return nil
}

// Deploy runs the deploy script. The signing key travels in the environment.
func (f *ForgeAdapter) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeploymentRecord, error) {
	out, err := f.run(ctx, config.TaskDeploy, DeployArgs(req), DeployEnv(req))
	if err != nil {
		return nil, withOutput(err, out)
	}

	record := &usecase.DeploymentRecord{
		Network:   req.Network.Name,
		ChainID:   req.Network.ChainID,
		Persisted: req.Persist,
		Output:    out,
	}
	if req.Signer != nil {
		record.Deployer = req.Signer.Address
	}
	return record, nil
}

// CompileArgs builds the flags for one bucket. The default pool carries no
// --use so the compiler is picked per pragma, but the evm and optimizer
// settings its entries share are still passed on.
func CompileArgs(bucket config.CompileBucket) []string {
	var args []string
	sel := bucket.Selection
	if sel.Overridden && len(sel.Profiles) == 1 {
		args = append(args, "--use", sel.Profiles[0].Version)
	}
	shared, _ := PoolSettings(sel.Profiles)
	if shared.EVMVersion != "" {
		args = append(args, "--evm-version", shared.EVMVersion)
	}
	if shared.Optimizer.Enabled {
		args = append(args, "--optimize", "--optimizer-runs", strconv.Itoa(shared.Optimizer.Runs))
	}
	return append(args, bucket.Paths...)
}

// PoolSettings returns the evm and optimizer settings every profile agrees
// on, and the names of the settings on which they differ. A differing
// setting is left zero in the result.
func PoolSettings(profiles []config.CompilerProfile) (config.CompilerProfile, []string) {
	if len(profiles) == 0 {
		return config.CompilerProfile{}, nil
	}
	shared := config.CompilerProfile{EVMVersion: profiles[0].EVMVersion, Optimizer: profiles[0].Optimizer}
	var conflicts []string
	for _, p := range profiles[1:] {
		if p.EVMVersion != profiles[0].EVMVersion && !slices.Contains(conflicts, "evm_version") {
			conflicts = append(conflicts, "evm_version")
			shared.EVMVersion = ""
		}
		if p.Optimizer != profiles[0].Optimizer && !slices.Contains(conflicts, "optimizer") {
			conflicts = append(conflicts, "optimizer")
			shared.Optimizer = config.OptimizerSettings{}
		}
	}
	return shared, conflicts
}

// BindingArgs builds the typechain flags
func BindingArgs(artifactDir, target, outDir string) []string {
	return []string{"--target", target, "--out-dir", outDir, artifactDir + "/**/*.json"}
}

// DeployArgs builds the deploy flags; no secret ever lands here
func DeployArgs(req usecase.DeployRequest) []string {
	args := []string{"--rpc-url", req.Network.URL, "--broadcast"}
	if req.Signer != nil {
		args = append(args, "--sender", req.Signer.Address.Hex())
		if req.Signer.Credential == "" {
			args = append(args, "--unlocked")
		}
	}
	return args
}

// DeployEnv builds the deploy environment
func DeployEnv(req usecase.DeployRequest) map[string]string {
	env := map[string]string{
		"SOLWATCH_NETWORK":          req.Network.Name,
		"SOLWATCH_CHAIN_ID":         strconv.FormatUint(req.Network.ChainID, 10),
		"SOLWATCH_SAVE_DEPLOYMENTS": strconv.FormatBool(req.Persist),
	}
	if req.Signer != nil && req.Signer.Credential != "" {
		env["PRIVATE_KEY"] = req.Signer.Credential
	}
	return env
}

// command returns argv and extra env for task, honouring project overrides
func (f *ForgeAdapter) command(task string) ([]string, map[string]string) {
	if f.cfg.Project != nil {
		if tc, ok := f.cfg.Project.Tasks[task]; ok && len(tc.Command) > 0 {
			return append([]string(nil), tc.Command...), tc.Env
		}
	}
	return append([]string(nil), defaultCommands[task]...), nil
}

func (f *ForgeAdapter) run(ctx context.Context, task string, args []string, env map[string]string) (string, error) {
	base, taskEnv := f.command(task)
	if len(base) == 0 {
		return "", fmt.Errorf("no command configured for task %s", task)
	}
	argv := append(base, args...)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = f.cfg.ProjectRoot
	cmd.Env = append(os.Environ(), envList(taskEnv)...)
	cmd.Env = append(cmd.Env, envList(env)...)

	start := time.Now()
	// env values are never logged, they may hold keys
	f.log.Debug("running task command", "task", task, "argv", argv)

	var output bytes.Buffer
	var err error
	if f.streams(ctx) {
		err = f.stream(cmd, &output)
	} else {
		cmd.Stdout = &output
		cmd.Stderr = &output
		err = cmd.Run()
	}

	duration := time.Since(start)
	if err != nil {
		f.log.Debug("task command failed", "task", task, "error", err, "duration", duration)
		return output.String(), fmt.Errorf("%s failed: %w", argv[0], err)
	}
	f.log.Debug("task command completed", "task", task, "duration", duration)
	return output.String(), nil
}

// streams is true under --debug or when the caller asked for live output,
// e.g. a verbose watch scope
func (f *ForgeAdapter) streams(ctx context.Context) bool {
	return f.cfg.Debug || usecase.StreamedOutput(ctx)
}

// stream mirrors the command's output live through a pty so tools keep their colors
func (f *ForgeAdapter) stream(cmd *exec.Cmd, output *bytes.Buffer) error {
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	// reading a pty whose child exited returns EIO, which just means EOF here
	_, _ = io.Copy(io.MultiWriter(f.stdout, output), ptyFile)
	return cmd.Wait()
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}

func withOutput(err error, output string) error {
	if output == "" {
		return err
	}
	return fmt.Errorf("%w\nOutput: %s", err, output)
}
