package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/config"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/shipgate/internal/application"
	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/spf13/cobra"
)

// overrideFlags are the command-line values that take precedence over
// .shipgate.yaml.
type overrideFlags struct {
	buildDir      string
	targetMB      float64
	warningMB     float64
	ciLimitMB     float64
	extendedAudit bool
}

func (f *overrideFlags) bindBuildDir(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.buildDir, "build-dir", "", "Build directory relative to the project")
}

func (f *overrideFlags) bindBudget(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.targetMB, "target-mb", 0, "Target compressed bundle size in MB")
	cmd.Flags().Float64Var(&f.warningMB, "warning-mb", 0, "Warning threshold in MB")
	cmd.Flags().Float64Var(&f.ciLimitMB, "ci-limit-mb", 0, "Hard CI limit in MB")
}

func (f *overrideFlags) bindAudit(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.extendedAudit, "extended-audit", false, "Run the configured quality audit")
}

// overrides returns only the flags the user actually set.
func (f *overrideFlags) overrides(cmd *cobra.Command) domain.Overrides {
	var o domain.Overrides
	flags := cmd.Flags()
	if flags.Changed("build-dir") {
		o.BuildDir = &f.buildDir
	}
	if flags.Changed("target-mb") {
		o.TargetMB = &f.targetMB
	}
	if flags.Changed("warning-mb") {
		o.WarningMB = &f.warningMB
	}
	if flags.Changed("ci-limit-mb") {
		o.CILimitMB = &f.ciLimitMB
	}
	if flags.Changed("extended-audit") {
		o.ExtendedAudit = &f.extendedAudit
	}
	return o
}

func resolvePath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absPath, nil
}

// loadConfig reads .shipgate.yaml and applies the command-line overrides.
func loadConfig(absPath string, o domain.Overrides) (domain.GateConfig, error) {
	var loader domain.ConfigLoader = config.New()
	cfg, err := loader.Load(absPath)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	cfg = cfg.WithOverrides(o)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

// workspace resolves the build tree and attaches the commit when available.
func workspace(absPath string, cfg domain.GateConfig) application.Workspace {
	ws := application.NewWorkspace(absPath, cfg)
	gi := gitinfo.New()
	if !gi.IsGitRepo(absPath) {
		return ws
	}
	if hash, err := gi.CommitHash(absPath); err == nil {
		ws.CommitHash = hash
	}
	return ws
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
