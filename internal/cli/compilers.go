package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/solwatch/internal/app"
	"github.com/trebuchet-org/solwatch/internal/cli/render"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// NewCompilersCmd creates the compilers command
func NewCompilersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compilers [paths...]",
		Short: "Show the compiler table and resolve contract paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(a *app.App) error {
				result, err := a.ShowCompilers.Run(cmd.Context(), usecase.ShowCompilersParams{Paths: args})
				stopSpinner(cmd)
				if err != nil {
					return err
				}
				return render.NewCompilersRenderer(cmd.OutOrStdout()).Render(result)
			})
		},
	}
}
