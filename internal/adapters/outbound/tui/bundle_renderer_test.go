package tui_test

import (
	"testing"
	"time"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/tui"
	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleAnalysis(decision *domain.BudgetDecision) *domain.BundleAnalysis {
	main := domain.FileEstimate{FileArtifact: domain.NewFileArtifact("main.dart.js", 3*1024*1024), CompressedSize: 786432}
	return &domain.BundleAnalysis{
		Totals: domain.SizeTotals{OriginalSize: 3 * 1024 * 1024, CompressedSize: 786432, FileCount: 1},
		Categories: map[domain.FileCategory]domain.SizeTotals{
			domain.CategoryJavaScript: {OriginalSize: 3 * 1024 * 1024, CompressedSize: 786432, FileCount: 1},
		},
		Files:     []domain.FileEstimate{main},
		Downloads: []domain.DownloadEstimate{{Network: "3G Slow", SpeedKBps: 50, TimeSeconds: 15.4}},
		Budget:    decision,
	}
}

func TestRenderBundle_Totals(t *testing.T) {
	output := tui.RenderBundle(sampleAnalysis(nil))
	assert.Contains(t, output, "768 KB compressed")
	assert.Contains(t, output, "main.dart.js")
	assert.Contains(t, output, "javascript")
	assert.Contains(t, output, "3G Slow")
	assert.Contains(t, output, "15.4s")
	assert.NotContains(t, output, "Budget")
}

func TestRenderBundle_Budget(t *testing.T) {
	output := tui.RenderBundle(sampleAnalysis(&domain.BudgetDecision{
		CompressedTotalMB: 8.6, TargetMB: 8, WarningMB: 7, CILimitMB: 8.5,
		Recommendations: []string{"Serve fonts as WOFF2"},
	}))
	assert.Contains(t, output, "Budget")
	assert.Contains(t, output, "exceeds the CI limit")
	assert.Contains(t, output, "Serve fonts as WOFF2")
}

func TestRenderBundle_WithinBudget(t *testing.T) {
	output := tui.RenderBundle(sampleAnalysis(&domain.BudgetDecision{
		CompressedTotalMB: 0.75, TargetMB: 8, WarningMB: 7, CILimitMB: 8.5,
		TargetMet: true, WithinCILimit: true,
	}))
	assert.Contains(t, output, "within budget")
}

func TestRenderDeployment(t *testing.T) {
	start := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	log := &domain.DeploymentLog{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		State:      domain.RunAborted,
		CommitHash: "abcdef1234567",
		Phases: []domain.PipelinePhase{
			{Name: domain.PhaseDependencies, Status: domain.PhaseSuccess},
			{Name: domain.PhaseBuild, Status: domain.PhaseFailed},
			{Name: domain.PhaseOptimize, Status: domain.PhaseSkipped},
		},
		Errors:   []domain.PhaseErrorRecord{{Phase: domain.PhaseBuild, Message: "phase build failed: exit 1"}},
		Warnings: []string{"sitemap.xml missing"},
	}

	output := tui.RenderDeployment(log)
	assert.Contains(t, output, "ABORTED")
	assert.Contains(t, output, "abcdef1")
	assert.Contains(t, output, "1500ms")
	assert.Contains(t, output, "phase build failed")
	assert.Contains(t, output, "sitemap.xml missing")
	assert.Contains(t, output, "○")
}

func TestRenderHistory(t *testing.T) {
	assert.Contains(t, tui.RenderHistory(nil), "No deployment history found.")

	start := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	output := tui.RenderHistory([]domain.DeploymentLog{
		{RunID: "a", StartedAt: start, FinishedAt: start.Add(time.Second), State: domain.RunCompleted},
		{RunID: "b", StartedAt: start.Add(time.Hour), State: domain.RunAborted, CommitHash: "1234567890",
			Errors: []domain.PhaseErrorRecord{{Phase: domain.PhaseVerify}}},
	})
	assert.Contains(t, output, "Deployment History")
	assert.Contains(t, output, "2026-03-07 12:00")
	assert.Contains(t, output, "completed")
	assert.Contains(t, output, "1234567")
	assert.Contains(t, output, "verify")
}
