package application

import (
	"context"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/abdidvp/shipgate/internal/domain/budget"
)

// CommandPhase delegates a phase to its collaborator command. A phase with
// no command configured is skipped.
func CommandPhase(name string, runner domain.CommandRunner, projectPath string, cmd domain.PhaseCommand) Phase {
	return NewPhase(name, func(ctx context.Context) (domain.PhaseOutcome, error) {
		if !cmd.Configured() {
			return domain.PhaseOutcome{}, domain.ErrPhaseSkipped
		}
		res, err := runner.Run(ctx, projectPath, cmd)
		if res == nil {
			return domain.PhaseOutcome{}, err
		}
		return domain.PhaseOutcome{Details: res}, err
	})
}

// verification collects what the verify phase produced.
type verification struct {
	report   *domain.VerificationReport
	analysis *domain.BundleAnalysis
}

// VerifyPhase scans the build tree once, verifies it and analyzes the bundle.
// A failing verdict is recorded but does not fail the phase; a budget breach
// does.
func VerifyPhase(scanner domain.ArtifactScanner, verify *VerifyService, analyze *AnalyzeService, ws Workspace, cfg domain.GateConfig, out *verification) Phase {
	return NewPhase(domain.PhaseVerify, func(ctx context.Context) (domain.PhaseOutcome, error) {
		snap, err := scanner.Scan(ctx, ws.BuildDir, ws.ScanOptions(cfg))
		if err != nil {
			return domain.PhaseOutcome{}, err
		}

		report, err := verify.VerifySnapshot(ctx, ws, snap, cfg)
		if err != nil {
			return domain.PhaseOutcome{}, err
		}
		out.report = report

		details := domain.VerifyDetails{
			Summary:            report.Summary,
			VerificationReport: ws.VerificationReportPath(cfg),
		}
		outcome := domain.PhaseOutcome{Details: details, Warnings: report.Warnings()}

		analysis, err := analyze.AnalyzeSnapshot(ctx, ws, snap, cfg)
		if analysis == nil {
			return outcome, err
		}
		out.analysis = analysis
		details.Budget = *analysis.Budget
		details.BundleReport = ws.BundleReportPath(cfg)
		outcome.Details = details
		if err == nil {
			outcome.Warnings = append(outcome.Warnings, budget.Warnings(*analysis.Budget)...)
		}
		return outcome, err
	})
}
