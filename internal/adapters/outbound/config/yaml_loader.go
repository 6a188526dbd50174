package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/abdidvp/shipgate/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file read from the project root.
const FileName = ".shipgate.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .shipgate.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .shipgate.yaml from projectPath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.GateConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.GateConfig{}, err
	}

	var raw domain.GateConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.GateConfig{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	// The profile picks the defaults, so it is checked before merging.
	if raw.Profile == "" {
		raw.Profile = domain.ProfileFlutter
	}
	if !slices.Contains(domain.ValidProfiles, raw.Profile) {
		return domain.GateConfig{}, fmt.Errorf("invalid %s: unknown profile %q (valid: flutter, spa)", FileName, raw.Profile)
	}

	cfg := mergeConfig(domain.DefaultConfigForProfile(raw.Profile), raw)
	if err := cfg.Validate(); err != nil {
		return domain.GateConfig{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg, nil
}

// mergeConfig overlays explicit overrides on top of profile defaults.
// Explicit (non-zero) values always win.
func mergeConfig(base, override domain.GateConfig) domain.GateConfig {
	result := base
	result.Profile = override.Profile

	setString(&result.BuildDir, override.BuildDir)

	setString(&result.Entry.HTML, override.Entry.HTML)
	setString(&result.Entry.MainScript, override.Entry.MainScript)
	setString(&result.Entry.WorkerScript, override.Entry.WorkerScript)
	setString(&result.Entry.Manifest, override.Entry.Manifest)
	setString(&result.Entry.AssetsDir, override.Entry.AssetsDir)

	setFloat(&result.Budget.TargetMB, override.Budget.TargetMB)
	setFloat(&result.Budget.WarningMB, override.Budget.WarningMB)
	setFloat(&result.Budget.CILimitMB, override.Budget.CILimitMB)
	setFloat(&result.Budget.Shares.JavaScriptMB, override.Budget.Shares.JavaScriptMB)
	setFloat(&result.Budget.Shares.AssetsMB, override.Budget.Shares.AssetsMB)
	setFloat(&result.Budget.Shares.FontsMB, override.Budget.Shares.FontsMB)
	setFloat(&result.Budget.Shares.LargeFileMB, override.Budget.Shares.LargeFileMB)

	setFloat(&result.Limits.MainScriptMaxMB, override.Limits.MainScriptMaxMB)
	setFloat(&result.Limits.HTMLMaxKB, override.Limits.HTMLMaxKB)
	setFloat(&result.Limits.ManifestMaxKB, override.Limits.ManifestMaxKB)

	// Phases merge per name; an explicit entry with no command disables
	// the profile default.
	if len(override.Phases) > 0 {
		phases := make(map[string]domain.PhaseCommand, len(base.Phases)+len(override.Phases))
		for k, v := range base.Phases {
			phases[k] = v
		}
		for k, v := range override.Phases {
			phases[k] = v
		}
		result.Phases = phases
	}

	result.RunExtendedAudit = override.RunExtendedAudit
	if len(override.Audit.Command) > 0 {
		result.Audit.Command = override.Audit.Command
	}
	if override.Audit.TimeoutSeconds != 0 {
		result.Audit.TimeoutSeconds = override.Audit.TimeoutSeconds
	}
	if len(override.Audit.Thresholds) > 0 {
		thresholds := make(map[string]int, len(base.Audit.Thresholds)+len(override.Audit.Thresholds))
		for k, v := range base.Audit.Thresholds {
			thresholds[k] = v
		}
		for k, v := range override.Audit.Thresholds {
			thresholds[k] = v
		}
		result.Audit.Thresholds = thresholds
	}

	setString(&result.Reports.VerificationFile, override.Reports.VerificationFile)
	setString(&result.Reports.BundleFile, override.Reports.BundleFile)

	setString(&result.Archive.S3Bucket, override.Archive.S3Bucket)
	setString(&result.Archive.S3Prefix, override.Archive.S3Prefix)

	return result
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}
