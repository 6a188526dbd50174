package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/audit"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/report"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/scanner"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/tui"
	"github.com/abdidvp/shipgate/internal/application"
	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/spf13/cobra"
)

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	var (
		flags      overrideFlags
		jsonOutput bool
		ciMode     bool
	)

	cmd := &cobra.Command{
		Use:   "verify [path]",
		Short: "Verify an existing build without running the release phases",
		Long:  "Check the build tree for required files, entry integrity, performance and security issues, and write verification-report.json into it.",
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := opts.log()
			svc := application.NewVerifyService(scanner.New(), audit.New(cfg.Audit, logger), report.New(), logger)
			rep, err := svc.Verify(ctx, workspace(absPath, cfg), cfg)
			if err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, rep); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderVerification(rep))
			}

			if ciMode && rep.Summary.OverallStatus == domain.StatusFail {
				return fmt.Errorf("verification status %s", rep.Summary.OverallStatus)
			}
			return nil
		},
	}

	flags.bindBuildDir(cmd)
	flags.bindAudit(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the verification report as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 when the status is FAIL")

	return cmd
}
