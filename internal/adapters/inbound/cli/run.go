package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/archive"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/audit"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/history"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/report"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/runner"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/scanner"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/tui"
	"github.com/abdidvp/shipgate/internal/application"
	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// releaseOutput is the --json document of a release run.
type releaseOutput struct {
	Log             *domain.DeploymentLog      `json:"deployment"`
	Report          *domain.VerificationReport `json:"verification,omitempty"`
	Analysis        *domain.BundleAnalysis     `json:"bundle,omitempty"`
	ArchiveLocation string                     `json:"archive_location,omitempty"`
	ExitCode        int                        `json:"exit_code"`
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		flags      overrideFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run every release phase and gate the build",
		Long:  "Run dependencies, build, optimize, seo and verify in order. The run aborts at the first failing phase; the exit code is non-zero unless the run completed, the verdict is not FAIL and the bundle is within the CI limit.",
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
			deps := application.ReleaseDeps{
				Scanner: scanner.New(),
				Runner:  runner.New(logger, cmd.ErrOrStderr()),
				Auditor: audit.New(cfg.Audit, logger),
				Writer:  report.New(),
				History: history.New(),
				Commits: gitinfo.New(),
				Logger:  logger,
			}
			if cfg.Archive.Enabled() {
				archiver, err := archive.NewS3Archiver(ctx, cfg.Archive)
				if err != nil {
					logger.Warn("archive disabled", zap.Error(err))
				} else {
					deps.Archiver = archiver
				}
			}

			res, err := application.NewReleaseService(deps).Release(ctx, absPath, cfg)
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := renderJSON(cmd, releaseOutput{
					Log:             res.Log,
					Report:          res.Report,
					Analysis:        res.Analysis,
					ArchiveLocation: res.ArchiveLocation,
					ExitCode:        res.ExitCode(),
				}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				if res.Report != nil {
					fmt.Fprint(out, tui.RenderVerification(res.Report))
				}
				if res.Analysis != nil {
					fmt.Fprint(out, tui.RenderBundle(res.Analysis))
				}
				fmt.Fprint(out, tui.RenderDeployment(res.Log))
			}

			if res.ExitCode() != 0 {
				return releaseFailure(res)
			}
			return nil
		},
	}

	flags.bindBuildDir(cmd)
	flags.bindBudget(cmd)
	flags.bindAudit(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the deployment log and reports as JSON")

	return cmd
}

func releaseFailure(res *application.ReleaseResult) error {
	switch {
	case res.Err != nil:
		return fmt.Errorf("release aborted: %w", res.Err)
	case res.Report != nil && res.Report.Summary.OverallStatus == domain.StatusFail:
		return errors.New("release blocked: verification status FAIL")
	default:
		return errors.New("release blocked")
	}
}
