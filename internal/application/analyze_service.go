package application

import (
	"context"
	"fmt"
	"time"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/abdidvp/shipgate/internal/domain/budget"
	"github.com/abdidvp/shipgate/internal/domain/sizing"
	"go.uber.org/zap"
)

// AnalyzeService estimates the compressed bundle size and applies the budget
// gate.
type AnalyzeService struct {
	scanner domain.ArtifactScanner
	writer  domain.ReportWriter
	logger  *zap.Logger
	now     func() time.Time
}

func NewAnalyzeService(scanner domain.ArtifactScanner, writer domain.ReportWriter, logger *zap.Logger) *AnalyzeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeService{scanner: scanner, writer: writer, logger: logger, now: time.Now}
}

// WithClock replaces the analysis clock.
func (s *AnalyzeService) WithClock(now func() time.Time) *AnalyzeService {
	s.now = now
	return s
}

// Analyze scans the build tree of ws and analyzes it.
func (s *AnalyzeService) Analyze(ctx context.Context, ws Workspace, cfg domain.GateConfig) (*domain.BundleAnalysis, error) {
	snap, err := s.scanner.Scan(ctx, ws.BuildDir, ws.ScanOptions(cfg))
	if err != nil {
		return nil, err
	}
	return s.AnalyzeSnapshot(ctx, ws, snap, cfg)
}

// AnalyzeSnapshot analyzes an already scanned build tree. The report is
// written before the budget is enforced, so a breach still leaves it on disk.
// On a breach the analysis is returned together with a
// *domain.BudgetBreachError.
func (s *AnalyzeService) AnalyzeSnapshot(ctx context.Context, ws Workspace, snap *domain.BuildSnapshot, cfg domain.GateConfig) (*domain.BundleAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis := sizing.Analyze(snap.Artifacts, domain.AnalysisMetadata{
		TargetMB:   cfg.Budget.TargetMB,
		WarningMB:  cfg.Budget.WarningMB,
		CILimitMB:  cfg.Budget.CILimitMB,
		BuildPath:  ws.BuildDir,
		AnalyzedAt: s.now(),
		CommitHash: ws.CommitHash,
	})
	decision := budget.Evaluate(analysis, cfg.Budget)
	analysis.Budget = &decision

	path := ws.BundleReportPath(cfg)
	if err := s.writer.WriteJSON(path, analysis); err != nil {
		return nil, fmt.Errorf("writing bundle report: %w", err)
	}

	s.logger.Info("bundle analyzed",
		zap.Float64("compressed_mb", decision.CompressedTotalMB),
		zap.Bool("target_met", decision.TargetMet),
		zap.Bool("within_ci_limit", decision.WithinCILimit),
		zap.String("report", path),
	)
	return analysis, budget.Enforce(decision)
}
