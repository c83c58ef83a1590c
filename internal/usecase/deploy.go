package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// DeployerRole is the named account that signs deployments
const DeployerRole = "deployer"

// DeployParams contains parameters for a deployment
type DeployParams struct {
	// Network falls back to the runtime network, then to an interactive prompt
	Network string
	Role    string
	// NonInteractive turns the prompt fallback into an error
	NonInteractive bool
}

// DeployResult contains the result of a deployment
type DeployResult struct {
	Network config.NetworkProfile
	Signer  *config.Signer
	Record  *DeploymentRecord
}

// Deploy resolves network and signer and hands off to the deploy task.
// Credentials are only checked here, never at load time.
type Deploy struct {
	cfg      *config.RuntimeConfig
	networks NetworkRegistry
	accounts AccountResolver
	deployer Deployer
	selector NetworkSelector
	sink     ProgressSink
	log      *slog.Logger
}

// NewDeploy creates a new Deploy use case
func NewDeploy(
	cfg *config.RuntimeConfig,
	networks NetworkRegistry,
	accounts AccountResolver,
	deployer Deployer,
	selector NetworkSelector,
	sink ProgressSink,
	log *slog.Logger,
) *Deploy {
	return &Deploy{
		cfg:      cfg,
		networks: networks,
		accounts: accounts,
		deployer: deployer,
		selector: selector,
		sink:     sink,
		log:      log.With("component", "Deploy"),
	}
}

// Run executes the use case
func (uc *Deploy) Run(ctx context.Context, params DeployParams) (*DeployResult, error) {
	name, err := uc.networkName(ctx, params)
	if err != nil {
		return nil, err
	}

	network, err := uc.networks.Get(name)
	if err != nil {
		return nil, err
	}

	role := params.Role
	if role == "" {
		role = DeployerRole
	}
	ref, err := uc.accounts.Resolve(role, name)
	if err != nil {
		return nil, err
	}

	// address bindings sign through the node, so credentials are optional for them
	credentials, err := uc.networks.Credentials(name)
	if err != nil && !ref.IsAddress {
		return nil, err
	}
	signer, err := uc.accounts.Signer(role, name, credentials)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "deploy",
		Message: fmt.Sprintf("deploying to %s as %s", name, signer.Address.Hex()),
		Spinner: true,
	})

	record, err := uc.deployer.Deploy(ctx, DeployRequest{
		Network:   network,
		Signer:    signer,
		Artifacts: ArtifactSet{Dir: ArtifactDir(uc.cfg)},
		Persist:   network.SaveDeployments,
	})
	if err != nil {
		return nil, &domain.TaskError{Task: config.TaskDeploy, Err: fmt.Errorf("%w: %v", domain.ErrDeploy, err)}
	}

	uc.log.Info("deployed", "network", name, "deployer", signer.Address.Hex(), "persisted", record.Persisted)
	return &DeployResult{Network: network, Signer: signer, Record: record}, nil
}

func (uc *Deploy) networkName(ctx context.Context, params DeployParams) (string, error) {
	if params.Network != "" {
		return params.Network, nil
	}
	if uc.cfg.Network != "" {
		return uc.cfg.Network, nil
	}
	if params.NonInteractive || uc.cfg.NonInteractive || uc.selector == nil {
		return "", fmt.Errorf("no network specified; use --network")
	}
	return uc.selector.SelectNetwork(ctx, uc.networks.All())
}
