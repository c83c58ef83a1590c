package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/solwatch/internal/adapters/progress"
	"github.com/trebuchet-org/solwatch/internal/app"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [scopes...]",
		Short: "Re-run task sequences whenever watched files change",
		Long: `Watch the files of every configured scope (or only the named ones) and
run the scope's tasks after changes settle. A failing task ends that run
only; watching continues until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(a *app.App) error {
				err := a.WatchProject.Run(cmd.Context(), usecase.WatchProjectParams{
					Scopes:   args,
					Reporter: progress.NewWatchReporterTo(cmd.OutOrStdout()),
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
}
