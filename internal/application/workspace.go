package application

import (
	"path/filepath"
	"strings"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/abdidvp/shipgate/internal/domain/rules"
)

// Workspace locates a project, its build tree and the commit being released.
type Workspace struct {
	ProjectPath string
	BuildDir    string
	CommitHash  string
}

// NewWorkspace resolves the build directory of cfg against projectPath.
func NewWorkspace(projectPath string, cfg domain.GateConfig) Workspace {
	buildDir := cfg.BuildDir
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(projectPath, buildDir)
	}
	return Workspace{ProjectPath: projectPath, BuildDir: buildDir}
}

// VerificationReportPath is where the verification report is written.
func (w Workspace) VerificationReportPath(cfg domain.GateConfig) string {
	return filepath.Join(w.BuildDir, cfg.Reports.VerificationFile)
}

// BundleReportPath is where the bundle analysis report is written.
func (w Workspace) BundleReportPath(cfg domain.GateConfig) string {
	return filepath.Join(w.ProjectPath, cfg.Reports.BundleFile)
}

// ScanOptions loads the entry files for inspection and leaves out the
// reports and state shipgate itself writes into the build tree.
func (w Workspace) ScanOptions(cfg domain.GateConfig) domain.ScanOptions {
	opts := domain.ScanOptions{
		Inspect: rules.InspectPaths(cfg.Entry),
		Exclude: []string{cfg.Reports.VerificationFile},
	}
	if rel, ok := w.insideBuild(w.BundleReportPath(cfg)); ok {
		opts.Exclude = append(opts.Exclude, rel)
	}
	if rel, ok := w.insideBuild(filepath.Join(w.ProjectPath, domain.StateDir)); ok {
		opts.Exclude = append(opts.Exclude, rel)
	}
	return opts
}

func (w Workspace) insideBuild(path string) (string, bool) {
	rel, err := filepath.Rel(w.BuildDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
