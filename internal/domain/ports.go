package domain

import "context"

// ScanOptions tunes one scan. Inspect names files whose text is loaded into
// the snapshot; Exclude names files left out of it. Both are relative to the
// build root.
type ScanOptions struct {
	Inspect []string
	Exclude []string
}

// ArtifactScanner walks a build tree and returns its snapshot.
type ArtifactScanner interface {
	Scan(ctx context.Context, root string, opts ScanOptions) (*BuildSnapshot, error)
}

// ConfigLoader loads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (GateConfig, error)
}

// ReportWriter persists a report document.
type ReportWriter interface {
	WriteJSON(path string, v any) error
}

// CommandRunner runs a collaborator command.
type CommandRunner interface {
	Run(ctx context.Context, dir string, cmd PhaseCommand) (*CommandResult, error)
}

// AuditScores maps audit category names to scores between 0 and 100.
type AuditScores map[string]float64

// AuditRunner runs the extended quality audit against a build tree.
type AuditRunner interface {
	Audit(ctx context.Context, buildDir string) (AuditScores, error)
}

// DeploymentHistory stores the logs of past release runs.
type DeploymentHistory interface {
	Save(projectPath string, log *DeploymentLog) error
	Load(projectPath string) ([]DeploymentLog, error)
}

// LogArchiver ships a finished deployment log to long-term storage.
type LogArchiver interface {
	Archive(ctx context.Context, log *DeploymentLog) (string, error)
}

// CommitInfo resolves the current commit of a project.
type CommitInfo interface {
	CommitHash(projectPath string) (string, error)
}
