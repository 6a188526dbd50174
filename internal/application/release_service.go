package application

import (
	"context"
	"fmt"
	"time"

	"github.com/abdidvp/shipgate/internal/domain"
	"go.uber.org/zap"
)

// ReleaseResult is the outcome of one release run.
type ReleaseResult struct {
	Log             *domain.DeploymentLog
	Report          *domain.VerificationReport
	Analysis        *domain.BundleAnalysis
	ArchiveLocation string
	// Err is the phase error that aborted the run, if any.
	Err error
}

// ExitCode is 0 only when the run completed, the verdict is not FAIL and the
// bundle is within the CI limit.
func (r *ReleaseResult) ExitCode() int {
	switch {
	case r.Log == nil || r.Log.State != domain.RunCompleted:
		return 1
	case r.Report == nil || r.Report.Summary.OverallStatus == domain.StatusFail:
		return 1
	case r.Analysis == nil || r.Analysis.Budget == nil || !r.Analysis.Budget.WithinCILimit:
		return 1
	}
	return 0
}

// ReleaseService runs the full release pipeline:
// dependencies → build → optimize → seo → verify, then records the log.
type ReleaseService struct {
	scanner  domain.ArtifactScanner
	runner   domain.CommandRunner
	verify   *VerifyService
	analyze  *AnalyzeService
	history  domain.DeploymentHistory
	commits  domain.CommitInfo
	archiver domain.LogArchiver
	logger   *zap.Logger
	now      func() time.Time
}

// ReleaseDeps bundles the collaborators of a ReleaseService. Commits and
// Archiver are optional.
type ReleaseDeps struct {
	Scanner  domain.ArtifactScanner
	Runner   domain.CommandRunner
	Auditor  domain.AuditRunner
	Writer   domain.ReportWriter
	History  domain.DeploymentHistory
	Commits  domain.CommitInfo
	Archiver domain.LogArchiver
	Logger   *zap.Logger
}

func NewReleaseService(deps ReleaseDeps) *ReleaseService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReleaseService{
		scanner:  deps.Scanner,
		runner:   deps.Runner,
		verify:   NewVerifyService(deps.Scanner, deps.Auditor, deps.Writer, logger),
		analyze:  NewAnalyzeService(deps.Scanner, deps.Writer, logger),
		history:  deps.History,
		commits:  deps.Commits,
		archiver: deps.Archiver,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the clock of the service and its pipeline.
func (s *ReleaseService) WithClock(now func() time.Time) *ReleaseService {
	s.now = now
	s.verify.WithClock(now)
	s.analyze.WithClock(now)
	return s
}

// Release runs every phase for the project at projectPath. An aborted run is
// not an error: it is reported through the result and its exit code. The
// error is reserved for an invalid configuration.
func (s *ReleaseService) Release(ctx context.Context, projectPath string, cfg domain.GateConfig) (*ReleaseResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ws := NewWorkspace(projectPath, cfg)
	if s.commits != nil {
		if hash, err := s.commits.CommitHash(projectPath); err == nil {
			ws.CommitHash = hash
		} else {
			s.logger.Debug("no commit hash", zap.Error(err))
		}
	}

	var out verification
	phases := make([]Phase, 0, len(domain.PhaseOrder))
	for _, name := range domain.CommandPhases {
		phases = append(phases, CommandPhase(name, s.runner, projectPath, cfg.Phase(name)))
	}
	phases = append(phases, VerifyPhase(s.scanner, s.verify, s.analyze, ws, cfg, &out))

	log, err := NewPipeline(s.logger, phases...).WithClock(s.now).Run(ctx)
	log.CommitHash = ws.CommitHash

	result := &ReleaseResult{Log: log, Report: out.report, Analysis: out.analysis, Err: err}

	if s.history != nil {
		if herr := s.history.Save(projectPath, log); herr != nil {
			s.logger.Warn("saving deployment history", zap.Error(herr))
		}
	}
	if s.archiver != nil && cfg.Archive.Enabled() {
		loc, aerr := s.archiver.Archive(ctx, log)
		if aerr != nil {
			s.logger.Warn("archiving deployment log", zap.Error(aerr))
		} else {
			result.ArchiveLocation = loc
			s.logger.Info("deployment log archived", zap.String("location", loc))
		}
	}
	return result, nil
}
