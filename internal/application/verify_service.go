package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/abdidvp/shipgate/internal/domain/rules"
	"go.uber.org/zap"
)

var errNoAuditRunner = errors.New("no audit runner configured")

// VerifyService orchestrates verification:
// scan build tree → evaluate rule groups → optional audit → aggregate → write report.
type VerifyService struct {
	scanner domain.ArtifactScanner
	auditor domain.AuditRunner
	writer  domain.ReportWriter
	logger  *zap.Logger
	now     func() time.Time
}

// NewVerifyService creates a VerifyService. auditor may be nil when the
// extended audit is never requested.
func NewVerifyService(
	scanner domain.ArtifactScanner,
	auditor domain.AuditRunner,
	writer domain.ReportWriter,
	logger *zap.Logger,
) *VerifyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerifyService{
		scanner: scanner,
		auditor: auditor,
		writer:  writer,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the report clock.
func (s *VerifyService) WithClock(now func() time.Time) *VerifyService {
	s.now = now
	return s
}

// Verify scans the build tree of ws and verifies it.
func (s *VerifyService) Verify(ctx context.Context, ws Workspace, cfg domain.GateConfig) (*domain.VerificationReport, error) {
	snap, err := s.scanner.Scan(ctx, ws.BuildDir, ws.ScanOptions(cfg))
	if err != nil {
		return nil, err
	}
	return s.VerifySnapshot(ctx, ws, snap, cfg)
}

// VerifySnapshot verifies an already scanned build tree and writes the report
// into it.
func (s *VerifyService) VerifySnapshot(ctx context.Context, ws Workspace, snap *domain.BuildSnapshot, cfg domain.GateConfig) (*domain.VerificationReport, error) {
	results, err := rules.Evaluate(ctx, snap, rules.ConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("evaluating rules: %w", err)
	}

	if cfg.RunExtendedAudit {
		audit, err := s.audit(ctx, ws.BuildDir, cfg.Audit.Thresholds)
		if err != nil {
			return nil, err
		}
		results = append(results, audit...)
	}

	report := domain.Aggregate(ws.BuildDir, results, s.now())
	report.CommitHash = ws.CommitHash

	path := ws.VerificationReportPath(cfg)
	if err := s.writer.WriteJSON(path, report); err != nil {
		return nil, fmt.Errorf("writing verification report: %w", err)
	}

	s.logger.Info("verification finished",
		zap.String("status", string(report.Summary.OverallStatus)),
		zap.Int("passed", report.Summary.TotalPassed),
		zap.Int("failed", report.Summary.TotalFailed),
		zap.String("report", path),
	)
	return report, nil
}

// audit never fails verification on its own. Only cancellation is returned.
func (s *VerifyService) audit(ctx context.Context, buildDir string, thresholds map[string]int) ([]domain.CheckResult, error) {
	if s.auditor == nil {
		return []domain.CheckResult{rules.AuditUnavailable(errNoAuditRunner)}, nil
	}

	start := time.Now()
	scores, err := s.auditor.Audit(ctx, buildDir)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("extended audit failed", zap.Error(err))
		return []domain.CheckResult{rules.AuditUnavailable(err)}, nil
	}
	s.logger.Debug("extended audit finished", zap.Duration("duration", time.Since(start)), zap.Int("categories", len(scores)))
	return rules.AuditChecks(scores, thresholds), nil
}
