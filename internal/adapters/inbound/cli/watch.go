package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/audit"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/report"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/scanner"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/tui"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/watcher"
	"github.com/abdidvp/shipgate/internal/application"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var (
		flags    overrideFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-verify the build whenever it changes",
		Long:  "Verify the build tree once, then again every time it settles after a change. Stop with Ctrl+C.",
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
			ws := workspace(absPath, cfg)
			svc := application.NewVerifyService(scanner.New(), audit.New(cfg.Audit, logger), report.New(), logger)

			verify := func(ctx context.Context) {
				rep, err := svc.Verify(ctx, ws, cfg)
				if err != nil {
					if ctx.Err() == nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "verification failed: %v\n", err)
					}
					return
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderVerification(rep))
			}

			verify(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes...\n", ws.BuildDir)

			var ignore []string
			for _, name := range []string{cfg.Reports.VerificationFile, cfg.Reports.BundleFile} {
				ignore = append(ignore, filepath.Base(name), report.TempName(filepath.Base(name)))
			}
			w := watcher.New(logger, debounce, ignore...)
			if err := w.Run(ctx, ws.BuildDir, verify); err != nil {
				return fmt.Errorf("watching %s: %w", ws.BuildDir, err)
			}
			logger.Debug("watch stopped", zap.String("build_dir", ws.BuildDir))
			return nil
		},
	}

	flags.bindBuildDir(cmd)
	flags.bindAudit(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Quiet period before re-verifying")

	return cmd
}
