package cli

import (
	"errors"
	"fmt"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/report"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/scanner"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/tui"
	"github.com/abdidvp/shipgate/internal/application"
	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		flags      overrideFlags
		jsonOutput bool
		ciMode     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Estimate the compressed bundle size and apply the budget",
		Long:  "Estimate per-file compressed sizes, compare the total against the size budget and write bundle-analysis-report.json into the project.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(absPath, flags.overrides(cmd))
			if err != nil {
				return err
			}

			svc := application.NewAnalyzeService(scanner.New(), report.New(), opts.log())
			analysis, err := svc.Analyze(cmd.Context(), workspace(absPath, cfg), cfg)
			var breach *domain.BudgetBreachError
			if err != nil && !errors.As(err, &breach) {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, analysis); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderBundle(analysis))
			}

			if ciMode && breach != nil {
				return breach
			}
			return nil
		},
	}

	flags.bindBuildDir(cmd)
	flags.bindBudget(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the bundle analysis as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 when the bundle exceeds the CI limit")

	return cmd
}
