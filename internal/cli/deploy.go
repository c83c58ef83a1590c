package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/solwatch/internal/app"
	"github.com/trebuchet-org/solwatch/internal/cli/render"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy to a network with its deployer account",
		Long: `Run the deploy task against a network. The deployer role is resolved
through the named accounts, and the network's credentials are only read
here. Without --network you are asked to pick one interactively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(a *app.App) error {
				network, _ := cmd.Flags().GetString("network")
				result, err := a.Deploy.Run(cmd.Context(), usecase.DeployParams{
					Network: network,
					Role:    role,
				})
				stopSpinner(cmd)
				if err != nil {
					return err
				}
				return render.NewBuildRenderer(cmd.OutOrStdout()).RenderDeploy(result)
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", usecase.DeployerRole, "Named account that signs the deployment")

	return cmd
}
