package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/solwatch/internal/adapters/progress"
	"github.com/trebuchet-org/solwatch/internal/app"
	"github.com/trebuchet-org/solwatch/internal/config"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// spinnerKey holds the spinner to stop once the command returns
	spinnerKey contextKey = "spinner"
	// cancelKey holds the --timeout cancel func
	cancelKey contextKey = "cancel"
)

// commands that run without a project file
var projectless = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "solwatch",
		Short: "Build orchestration for Solidity projects",
		Long: `solwatch resolves compiler profiles, networks and named accounts from a
single project file and drives compile, test, size, typechain and deploy
tasks, once or continuously while watching the source tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if projectless[cmd.Name()] {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				// --config may still point somewhere explicit
				if f := cmd.Flag("config"); f == nil || !f.Changed {
					return err
				}
				projectRoot = "."
			}

			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink = usecase.NopProgress{}
			var spinner *progress.SpinnerProgressReporter
			if !v.GetBool("non_interactive") && cmd.Name() != "watch" {
				spinner = progress.NewSpinnerProgressReporter()
				sink = spinner
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			ctx = context.WithValue(ctx, spinnerKey, spinner)

			if appInstance.Config.Timeout > 0 && cmd.Name() != "watch" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				ctx = context.WithValue(ctx, cancelKey, cancel)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Project file (defaults to solwatch.toml or solwatch.yaml in the project root)")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., mainnet, sepolia)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output and stream task output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort one-shot commands after this long")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "Inspection Commands",
	})

	for _, c := range []*cobra.Command{
		NewBuildCmd(),
		NewTestCmd(),
		NewWatchCmd(),
		NewSizeCmd(),
		NewTypechainCmd(),
		NewDeployCmd(),
	} {
		c.GroupID = "main"
		rootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{
		NewNetworksCmd(),
		NewCompilersCmd(),
		NewAccountsCmd(),
	} {
		c.GroupID = "inspect"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// runApp runs fn with the app and makes sure the spinner is gone and the
// timeout released afterwards, whether or not fn failed.
// fn calls stopSpinner itself before rendering.
func runApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	defer cancelTimeout(cmd)
	a, err := getApp(cmd)
	if err != nil {
		return err
	}
	err = fn(a)
	stopSpinner(cmd)
	return err
}

func cancelTimeout(cmd *cobra.Command) {
	if cancel, ok := cmd.Context().Value(cancelKey).(context.CancelFunc); ok {
		cancel()
	}
}

func stopSpinner(cmd *cobra.Command) {
	if s, ok := cmd.Context().Value(spinnerKey).(*progress.SpinnerProgressReporter); ok && s != nil {
		s.Stop()
	}
}
