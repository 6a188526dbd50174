package cli

import (
	"fmt"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/history"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/tui"
	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show past release runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}

			logs, err := history.New().Load(absPath)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			if limit > 0 && len(logs) > limit {
				logs = logs[len(logs)-limit:]
			}

			if jsonOutput {
				if logs == nil {
					logs = []domain.DeploymentLog{}
				}
				return renderJSON(cmd, logs)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(logs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")
	cmd.Flags().IntVar(&limit, "limit", 20, "Show at most this many of the newest runs (0 for all)")

	return cmd
}
