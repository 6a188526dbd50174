package domain

import (
	"fmt"
	"slices"
)

// StateDir is the per-project directory holding shipgate's own records.
const StateDir = ".shipgate"

// Profile selects the entry layout and collaborator defaults for a kind of
// web build.
type Profile string

const (
	ProfileFlutter Profile = "flutter"
	ProfileSPA     Profile = "spa"
)

// ValidProfiles enumerates all recognized profiles.
var ValidProfiles = []Profile{ProfileFlutter, ProfileSPA}

// GateConfig holds project-level configuration loaded from .shipgate.yaml.
type GateConfig struct {
	Profile          Profile                 `yaml:"profile"            json:"profile"`
	BuildDir         string                  `yaml:"build_dir"          json:"build_dir"`
	Entry            EntryLayout             `yaml:"entry"              json:"entry"`
	Budget           BudgetConfig            `yaml:"budget"             json:"budget"`
	Limits           LimitsConfig            `yaml:"limits"             json:"limits"`
	Phases           map[string]PhaseCommand `yaml:"phases"             json:"phases,omitempty"`
	RunExtendedAudit bool                    `yaml:"run_extended_audit" json:"run_extended_audit"`
	Audit            AuditConfig             `yaml:"audit"              json:"audit"`
	Reports          ReportConfig            `yaml:"reports"            json:"reports"`
	Archive          ArchiveConfig           `yaml:"archive"            json:"archive"`
}

// EntryLayout names the well-known files of the build tree, relative to its root.
type EntryLayout struct {
	HTML         string `yaml:"html"          json:"html"`
	MainScript   string `yaml:"main_script"   json:"main_script"`
	WorkerScript string `yaml:"worker_script" json:"worker_script"`
	Manifest     string `yaml:"manifest"      json:"manifest"`
	AssetsDir    string `yaml:"assets_dir"    json:"assets_dir"`
}

// BudgetConfig holds the compressed-size thresholds in binary megabytes.
type BudgetConfig struct {
	TargetMB  float64      `yaml:"target_mb"   json:"target_mb"`
	WarningMB float64      `yaml:"warning_mb"  json:"warning_mb"`
	CILimitMB float64      `yaml:"ci_limit_mb" json:"ci_limit_mb"`
	Shares    BudgetShares `yaml:"shares"      json:"shares"`
}

// BudgetShares are the per-category sizes above which the gate recommends
// a remedy.
type BudgetShares struct {
	JavaScriptMB float64 `yaml:"javascript_mb" json:"javascript_mb"`
	AssetsMB     float64 `yaml:"assets_mb"     json:"assets_mb"`
	FontsMB      float64 `yaml:"fonts_mb"      json:"fonts_mb"`
	LargeFileMB  float64 `yaml:"large_file_mb" json:"large_file_mb"`
}

// LimitsConfig holds raw-size ceilings for individual entry files.
type LimitsConfig struct {
	MainScriptMaxMB float64 `yaml:"main_script_max_mb" json:"main_script_max_mb"`
	HTMLMaxKB       float64 `yaml:"html_max_kb"        json:"html_max_kb"`
	ManifestMaxKB   float64 `yaml:"manifest_max_kb"    json:"manifest_max_kb"`
}

// PhaseCommand is an external collaborator invocation. An empty Command
// skips the phase.
type PhaseCommand struct {
	Command []string `yaml:"command" json:"command,omitempty"`
	Dir     string   `yaml:"dir"     json:"dir,omitempty"`
	Env     []string `yaml:"env"     json:"env,omitempty"`
}

// Configured reports whether the phase has a command to run.
func (p PhaseCommand) Configured() bool { return len(p.Command) > 0 }

// AuditConfig configures the extended quality audit.
type AuditConfig struct {
	Command        []string       `yaml:"command"         json:"command,omitempty"`
	TimeoutSeconds int            `yaml:"timeout_seconds" json:"timeout_seconds"`
	Thresholds     map[string]int `yaml:"thresholds"      json:"thresholds,omitempty"`
}

type ReportConfig struct {
	VerificationFile string `yaml:"verification_file" json:"verification_file"`
	BundleFile       string `yaml:"bundle_file"       json:"bundle_file"`
}

// ArchiveConfig enables archival of deployment logs to S3 when S3Bucket is set.
type ArchiveConfig struct {
	S3Bucket string `yaml:"s3_bucket" json:"s3_bucket,omitempty"`
	S3Prefix string `yaml:"s3_prefix" json:"s3_prefix,omitempty"`
}

// Enabled reports whether archival is configured.
func (a ArchiveConfig) Enabled() bool { return a.S3Bucket != "" }

// DefaultAuditThresholds are the minimum audit scores (0-100) per category.
var DefaultAuditThresholds = map[string]int{
	"performance":    70,
	"accessibility":  90,
	"best-practices": 80,
	"seo":            85,
}

// DefaultConfig returns the flutter profile defaults.
func DefaultConfig() GateConfig {
	return DefaultConfigForProfile(ProfileFlutter)
}

// DefaultConfigForProfile returns sensible defaults for a given profile.
func DefaultConfigForProfile(p Profile) GateConfig {
	cfg := GateConfig{
		Profile: p,
		Budget: BudgetConfig{
			TargetMB:  8,
			WarningMB: 7,
			CILimitMB: 8.5,
			Shares: BudgetShares{
				JavaScriptMB: 4,
				AssetsMB:     2,
				FontsMB:      0.5,
				LargeFileMB:  1,
			},
		},
		Limits: LimitsConfig{
			MainScriptMaxMB: 10,
			HTMLMaxKB:       50,
			ManifestMaxKB:   10,
		},
		Audit: AuditConfig{
			TimeoutSeconds: 60,
			Thresholds:     copyThresholds(DefaultAuditThresholds),
		},
		Reports: ReportConfig{
			VerificationFile: "verification-report.json",
			BundleFile:       "bundle-analysis-report.json",
		},
	}

	switch p {
	case ProfileSPA:
		cfg.BuildDir = "dist"
		cfg.Entry = EntryLayout{
			HTML:         "index.html",
			MainScript:   "main.js",
			WorkerScript: "service-worker.js",
			Manifest:     "manifest.json",
			AssetsDir:    "assets",
		}
		cfg.Phases = map[string]PhaseCommand{
			PhaseDependencies: {Command: []string{"npm", "ci"}},
			PhaseBuild:        {Command: []string{"npm", "run", "build"}},
		}

	default: // flutter or unrecognized
		cfg.BuildDir = "build/web"
		cfg.Entry = EntryLayout{
			HTML:         "index.html",
			MainScript:   "main.dart.js",
			WorkerScript: "flutter_service_worker.js",
			Manifest:     "manifest.json",
			AssetsDir:    "assets",
		}
		cfg.Phases = map[string]PhaseCommand{
			PhaseDependencies: {Command: []string{"flutter", "pub", "get"}},
			PhaseBuild:        {Command: []string{"flutter", "build", "web", "--release"}},
		}
	}

	return cfg
}

func copyThresholds(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Phase returns the collaborator command configured for a phase.
func (c GateConfig) Phase(name string) PhaseCommand {
	return c.Phases[name]
}

// Overrides carries command-line values that take precedence over the file.
// Nil fields leave the configuration unchanged.
type Overrides struct {
	BuildDir      *string
	TargetMB      *float64
	WarningMB     *float64
	CILimitMB     *float64
	ExtendedAudit *bool
}

// WithOverrides returns a copy of c with the non-nil overrides applied.
func (c GateConfig) WithOverrides(o Overrides) GateConfig {
	if o.BuildDir != nil {
		c.BuildDir = *o.BuildDir
	}
	if o.TargetMB != nil {
		c.Budget.TargetMB = *o.TargetMB
	}
	if o.WarningMB != nil {
		c.Budget.WarningMB = *o.WarningMB
	}
	if o.CILimitMB != nil {
		c.Budget.CILimitMB = *o.CILimitMB
	}
	if o.ExtendedAudit != nil {
		c.RunExtendedAudit = *o.ExtendedAudit
	}
	return c
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c GateConfig) Validate() error {
	// 1. profile must be known
	if !slices.Contains(ValidProfiles, c.Profile) {
		return fmt.Errorf("unknown profile %q (valid: flutter, spa)", c.Profile)
	}

	// 2. build_dir must be set
	if c.BuildDir == "" {
		return fmt.Errorf("build_dir must not be empty")
	}

	// 3. entry paths must be set
	entries := []struct{ name, value string }{
		{"entry.html", c.Entry.HTML},
		{"entry.main_script", c.Entry.MainScript},
		{"entry.worker_script", c.Entry.WorkerScript},
		{"entry.manifest", c.Entry.Manifest},
		{"entry.assets_dir", c.Entry.AssetsDir},
	}
	for _, e := range entries {
		if e.value == "" {
			return fmt.Errorf("%s must not be empty", e.name)
		}
	}

	// 4. budget thresholds must be positive
	b := c.Budget
	for name, v := range map[string]float64{
		"budget.target_mb":   b.TargetMB,
		"budget.warning_mb":  b.WarningMB,
		"budget.ci_limit_mb": b.CILimitMB,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be > 0 (got %.2f)", name, v)
		}
	}

	// 5. warning <= target <= ci_limit
	if b.WarningMB > b.TargetMB {
		return fmt.Errorf("budget.warning_mb (%.2f) must not exceed budget.target_mb (%.2f)", b.WarningMB, b.TargetMB)
	}
	if b.TargetMB > b.CILimitMB {
		return fmt.Errorf("budget.target_mb (%.2f) must not exceed budget.ci_limit_mb (%.2f)", b.TargetMB, b.CILimitMB)
	}

	// 6. shares must not be negative
	for name, v := range map[string]float64{
		"budget.shares.javascript_mb": b.Shares.JavaScriptMB,
		"budget.shares.assets_mb":     b.Shares.AssetsMB,
		"budget.shares.fonts_mb":      b.Shares.FontsMB,
		"budget.shares.large_file_mb": b.Shares.LargeFileMB,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be >= 0 (got %.2f)", name, v)
		}
	}

	// 7. limits must be positive
	for name, v := range map[string]float64{
		"limits.main_script_max_mb": c.Limits.MainScriptMaxMB,
		"limits.html_max_kb":        c.Limits.HTMLMaxKB,
		"limits.manifest_max_kb":    c.Limits.ManifestMaxKB,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be > 0 (got %.2f)", name, v)
		}
	}

	// 8. phases must name collaborator phases
	for name := range c.Phases {
		if !slices.Contains(CommandPhases, name) {
			return fmt.Errorf("unknown phase %q in phases (valid: dependencies, build, optimize, seo)", name)
		}
	}

	// 9. audit timeout and thresholds
	if c.Audit.TimeoutSeconds <= 0 {
		return fmt.Errorf("audit.timeout_seconds must be > 0 (got %d)", c.Audit.TimeoutSeconds)
	}
	for k, v := range c.Audit.Thresholds {
		if v < 0 || v > 100 {
			return fmt.Errorf("audit.thresholds[%q] = %d (must be between 0 and 100)", k, v)
		}
	}

	// 10. report file names must be set
	if c.Reports.VerificationFile == "" || c.Reports.BundleFile == "" {
		return fmt.Errorf("reports.verification_file and reports.bundle_file must not be empty")
	}

	return nil
}
