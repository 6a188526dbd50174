package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/config"
	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		profile string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .shipgate.yaml configuration file",
		Long:  "Create a .shipgate.yaml with the defaults of a build profile.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			p := domain.Profile(profile)
			if !slices.Contains(domain.ValidProfiles, p) {
				return fmt.Errorf("unknown profile %q (valid: flutter, spa)", profile)
			}

			if err := os.WriteFile(dest, []byte(generateConfig(p)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", string(domain.ProfileFlutter), "Build profile (flutter, spa)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .shipgate.yaml")

	return cmd
}

func generateConfig(p domain.Profile) string {
	cfg := domain.DefaultConfigForProfile(p)
	var b strings.Builder

	b.WriteString("# shipgate configuration\n")
	b.WriteString("# Flags passed to `shipgate run` override these values.\n\n")
	fmt.Fprintf(&b, "profile: %s\n", cfg.Profile)
	fmt.Fprintf(&b, "build_dir: %s\n\n", cfg.BuildDir)

	b.WriteString("entry:\n")
	fmt.Fprintf(&b, "  html: %s\n", cfg.Entry.HTML)
	fmt.Fprintf(&b, "  main_script: %s\n", cfg.Entry.MainScript)
	fmt.Fprintf(&b, "  worker_script: %s\n", cfg.Entry.WorkerScript)
	fmt.Fprintf(&b, "  manifest: %s\n", cfg.Entry.Manifest)
	fmt.Fprintf(&b, "  assets_dir: %s\n\n", cfg.Entry.AssetsDir)

	b.WriteString("# Compressed sizes in MB. warning_mb <= target_mb <= ci_limit_mb.\n")
	b.WriteString("budget:\n")
	fmt.Fprintf(&b, "  target_mb: %s\n", num(cfg.Budget.TargetMB))
	fmt.Fprintf(&b, "  warning_mb: %s\n", num(cfg.Budget.WarningMB))
	fmt.Fprintf(&b, "  ci_limit_mb: %s\n", num(cfg.Budget.CILimitMB))
	b.WriteString("  shares:\n")
	fmt.Fprintf(&b, "    javascript_mb: %s\n", num(cfg.Budget.Shares.JavaScriptMB))
	fmt.Fprintf(&b, "    assets_mb: %s\n", num(cfg.Budget.Shares.AssetsMB))
	fmt.Fprintf(&b, "    fonts_mb: %s\n", num(cfg.Budget.Shares.FontsMB))
	fmt.Fprintf(&b, "    large_file_mb: %s\n\n", num(cfg.Budget.Shares.LargeFileMB))

	b.WriteString("limits:\n")
	fmt.Fprintf(&b, "  main_script_max_mb: %s\n", num(cfg.Limits.MainScriptMaxMB))
	fmt.Fprintf(&b, "  html_max_kb: %s\n", num(cfg.Limits.HTMLMaxKB))
	fmt.Fprintf(&b, "  manifest_max_kb: %s\n\n", num(cfg.Limits.ManifestMaxKB))

	b.WriteString("# Phases without a command are skipped.\n")
	b.WriteString("phases:\n")
	for _, name := range domain.CommandPhases {
		if pc := cfg.Phase(name); pc.Configured() {
			fmt.Fprintf(&b, "  %s:\n    command: %s\n", name, list(pc.Command))
		} else {
			fmt.Fprintf(&b, "  # %s:\n  #   command: []\n", name)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "run_extended_audit: %t\n", cfg.RunExtendedAudit)
	b.WriteString("audit:\n")
	b.WriteString("  # command: [\"lighthouse\", \"http://localhost:8080\", \"--output=json\", \"--quiet\"]\n")
	fmt.Fprintf(&b, "  timeout_seconds: %d\n", cfg.Audit.TimeoutSeconds)
	b.WriteString("  thresholds:\n")
	names := make([]string, 0, len(cfg.Audit.Thresholds))
	for name := range cfg.Audit.Thresholds {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&b, "    %s: %d\n", name, cfg.Audit.Thresholds[name])
	}
	b.WriteString("\n")

	b.WriteString("# archive:\n#   s3_bucket: my-releases\n#   s3_prefix: web\n")
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func list(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = strconv.Quote(it)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
