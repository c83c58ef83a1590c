package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/solwatch/internal/app"
	"github.com/trebuchet-org/solwatch/internal/cli/render"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	var skipSize bool

	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Compile contracts with their resolved compiler profiles",
		Long: `Compile the project. Each source is compiled with its override profile,
or with the default compiler pool when it has none. The size gate and
typechain run afterwards when the project enables them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(a *app.App) error {
				network, _ := cmd.Flags().GetString("network")
				result, err := a.Build.Run(cmd.Context(), usecase.BuildParams{
					Paths:        args,
					Network:      network,
					SkipSizeGate: skipSize,
				})
				stopSpinner(cmd)
				if result != nil && result.SizeReport != nil && err != nil {
					_ = render.NewSizeRenderer(cmd.OutOrStdout()).Render(result.SizeReport)
				}
				if err != nil {
					return err
				}
				return render.NewBuildRenderer(cmd.OutOrStdout()).Render(result)
			})
		},
	}

	cmd.Flags().BoolVar(&skipSize, "skip-size", false, "Skip the contract size gate")

	return cmd
}

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run the test suite",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(a *app.App) error {
				report, err := a.RunTests.Run(cmd.Context())
				stopSpinner(cmd)
				if err != nil {
					return err
				}
				return render.NewBuildRenderer(cmd.OutOrStdout()).RenderTests(report)
			})
		},
	}
}

// NewSizeCmd creates the size command
func NewSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Report compiled contract sizes against the deployment limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(a *app.App) error {
				report, err := a.SizeReport.Run(cmd.Context(), usecase.ArtifactSet{Dir: usecase.ArtifactDir(a.Config)})
				stopSpinner(cmd)
				if report != nil {
					if rerr := render.NewSizeRenderer(cmd.OutOrStdout()).Render(report); rerr != nil {
						return rerr
					}
				}
				return err
			})
		},
	}
}

// NewTypechainCmd creates the typechain command
func NewTypechainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typechain",
		Short: "Generate typed bindings from compiled artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(a *app.App) error {
				err := a.GenerateBindings.Run(cmd.Context(), usecase.ArtifactSet{Dir: usecase.ArtifactDir(a.Config)})
				stopSpinner(cmd)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Generated typed bindings in "+a.GenerateBindings.OutDir()))
				return nil
			})
		},
	}
}
