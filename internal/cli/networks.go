package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/solwatch/internal/app"
	"github.com/trebuchet-org/solwatch/internal/cli/render"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List declared networks",
		Long: `List all networks declared in the project file, in declaration order.

Use --tag to show only networks carrying a tag (e.g. --tag l2).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(a *app.App) error {
				result, err := a.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{Tag: tag})
				stopSpinner(cmd)
				if err != nil {
					return err
				}
				return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result, tag)
			})
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only list networks with this tag")

	return cmd
}
