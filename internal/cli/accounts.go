package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/solwatch/internal/app"
	"github.com/trebuchet-org/solwatch/internal/cli/render"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// NewAccountsCmd creates the accounts command
func NewAccountsCmd() *cobra.Command {
	var signers bool

	cmd := &cobra.Command{
		Use:   "accounts [roles...]",
		Short: "Resolve named accounts on a network",
		Long: `Show how each named account resolves on the selected network.

With --signers the network's credentials are read and index bindings are
resolved to concrete addresses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(a *app.App) error {
				network, _ := cmd.Flags().GetString("network")
				result, err := a.ResolveAccount.Run(cmd.Context(), usecase.ResolveAccountParams{
					Network:     network,
					Roles:       args,
					WithSigners: signers,
				})
				stopSpinner(cmd)
				if err != nil {
					return err
				}
				return render.NewAccountsRenderer(cmd.OutOrStdout()).Render(result)
			})
		},
	}

	cmd.Flags().BoolVar(&signers, "signers", false, "Derive signer addresses from the network credentials")

	return cmd
}
