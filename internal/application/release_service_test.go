package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/report"
	"github.com/abdidvp/shipgate/internal/adapters/outbound/scanner"
	"github.com/abdidvp/shipgate/internal/application"
	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/abdidvp/shipgate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type releaseFixture struct {
	runner   *fakeRunner
	history  *memoryHistory
	archiver *fakeArchiver
	svc      *application.ReleaseService
}

func newReleaseFixture(commit string) *releaseFixture {
	f := &releaseFixture{
		runner:   &fakeRunner{fail: map[string]error{}},
		history:  &memoryHistory{},
		archiver: &fakeArchiver{},
	}
	f.svc = application.NewReleaseService(application.ReleaseDeps{
		Scanner:  scanner.New(),
		Runner:   f.runner,
		Writer:   report.New(),
		History:  f.history,
		Commits:  fixedCommit(commit),
		Archiver: f.archiver,
	}).WithClock(steppingClock())
	return f
}

func TestRelease_CompleteBuild(t *testing.T) {
	project, cfg := newProject(t, testutil.Build{})
	f := newReleaseFixture("0123456789abcdef")

	res, err := f.svc.Release(context.Background(), project, cfg)
	require.NoError(t, err)
	require.NoError(t, res.Err)

	assert.Equal(t, 0, res.ExitCode())
	assert.Equal(t, domain.RunCompleted, res.Log.State)
	assert.Equal(t, "0123456789abcdef", res.Log.CommitHash)
	assert.Equal(t, "0123456789abcdef", res.Report.CommitHash)
	assert.Equal(t, []string{"flutter pub get", "flutter build web --release"}, f.runner.calls)

	require.Len(t, res.Log.Phases, 5)
	want := map[string]domain.PhaseStatus{
		domain.PhaseDependencies: domain.PhaseSuccess,
		domain.PhaseBuild:        domain.PhaseSuccess,
		domain.PhaseOptimize:     domain.PhaseSkipped,
		domain.PhaseSEO:          domain.PhaseSkipped,
		domain.PhaseVerify:       domain.PhaseSuccess,
	}
	for i, p := range res.Log.Phases {
		assert.Equal(t, domain.PhaseOrder[i], p.Name)
		assert.Equal(t, want[p.Name], p.Status, p.Name)
	}

	verify, _ := res.Log.Phase(domain.PhaseVerify)
	details, ok := verify.Details.(domain.VerifyDetails)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPass, details.Summary.OverallStatus)
	assert.True(t, details.Budget.WithinCILimit)

	require.Len(t, f.history.logs, 1)
	assert.Equal(t, res.Log.RunID, f.history.logs[0].RunID)
	assert.Empty(t, f.archiver.archived, "archive is disabled without a bucket")
}

func TestRelease_MissingWorkerFailsVerdict(t *testing.T) {
	project, cfg := newProject(t, missingWorkerBuild())
	f := newReleaseFixture("")

	res, err := f.svc.Release(context.Background(), project, cfg)
	require.NoError(t, err)

	assert.Equal(t, domain.RunCompleted, res.Log.State, "a failing verdict still completes the run")
	assert.Equal(t, domain.StatusFail, res.Report.Summary.OverallStatus)
	assert.Equal(t, 1, res.ExitCode())
	assert.Empty(t, res.Log.CommitHash)
	assert.NotEmpty(t, res.Log.Warnings)
}

func TestRelease_BuildFailureAborts(t *testing.T) {
	project, cfg := newProject(t, testutil.Build{})
	f := newReleaseFixture("")
	f.runner.fail["flutter build web --release"] = errors.New("exit status 1")

	res, err := f.svc.Release(context.Background(), project, cfg)
	require.NoError(t, err)

	var perr *domain.PhaseError
	require.ErrorAs(t, res.Err, &perr)
	assert.Equal(t, domain.PhaseBuild, perr.Phase)

	assert.Equal(t, domain.RunAborted, res.Log.State)
	assert.Len(t, res.Log.Phases, 2)
	assert.Len(t, res.Log.Errors, 1)
	assert.Nil(t, res.Report, "verify never ran")
	assert.Equal(t, 1, res.ExitCode())
	require.Len(t, f.history.logs, 1, "aborted runs are still recorded")
}

func TestRelease_BudgetBreachAbortsVerify(t *testing.T) {
	project, cfg := newProject(t, testutil.Build{MainScriptBytes: 1024 * 1024})
	cfg.Budget.WarningMB = 0.05
	cfg.Budget.TargetMB = 0.1
	cfg.Budget.CILimitMB = 0.2
	f := newReleaseFixture("")

	res, err := f.svc.Release(context.Background(), project, cfg)
	require.NoError(t, err)

	var breach *domain.BudgetBreachError
	require.ErrorAs(t, res.Err, &breach)
	assert.Equal(t, domain.RunAborted, res.Log.State)

	verify, ok := res.Log.Phase(domain.PhaseVerify)
	require.True(t, ok)
	assert.Equal(t, domain.PhaseFailed, verify.Status)
	require.NotNil(t, res.Analysis)
	assert.False(t, res.Analysis.Budget.WithinCILimit)
	assert.Equal(t, 1, res.ExitCode())
}

func TestRelease_ArchivesWhenEnabled(t *testing.T) {
	project, cfg := newProject(t, testutil.Build{})
	cfg.Archive.S3Bucket = "releases"
	f := newReleaseFixture("")

	res, err := f.svc.Release(context.Background(), project, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{res.Log.RunID}, f.archiver.archived)
	assert.Equal(t, "s3://releases/"+res.Log.RunID+".json", res.ArchiveLocation)
}

func TestRelease_ArchiveFailureIsNotFatal(t *testing.T) {
	project, cfg := newProject(t, testutil.Build{})
	cfg.Archive.S3Bucket = "releases"
	f := newReleaseFixture("")
	f.archiver.err = errors.New("access denied")

	res, err := f.svc.Release(context.Background(), project, cfg)
	require.NoError(t, err)
	assert.Empty(t, res.ArchiveLocation)
	assert.Equal(t, 0, res.ExitCode())
}

func TestRelease_CancelledBeforeStart(t *testing.T) {
	project, cfg := newProject(t, testutil.Build{})
	f := newReleaseFixture("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.svc.Release(ctx, project, cfg)
	require.NoError(t, err)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, domain.RunAborted, res.Log.State)
	assert.Empty(t, f.runner.calls)
	assert.Equal(t, 1, res.ExitCode())
}

func TestRelease_InvalidConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Budget.WarningMB = 9
	_, err := newReleaseFixture("").svc.Release(context.Background(), t.TempDir(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestReleaseResult_ExitCode(t *testing.T) {
	completed := &domain.DeploymentLog{State: domain.RunCompleted}
	pass := &domain.VerificationReport{Summary: domain.Summary{OverallStatus: domain.StatusPassWithWarnings}}
	fail := &domain.VerificationReport{Summary: domain.Summary{OverallStatus: domain.StatusFail}}
	within := &domain.BundleAnalysis{Budget: &domain.BudgetDecision{WithinCILimit: true}}
	over := &domain.BundleAnalysis{Budget: &domain.BudgetDecision{WithinCILimit: false}}

	tests := []struct {
		name string
		res  application.ReleaseResult
		want int
	}{
		{"completed and passing", application.ReleaseResult{Log: completed, Report: pass, Analysis: within}, 0},
		{"failing verdict", application.ReleaseResult{Log: completed, Report: fail, Analysis: within}, 1},
		{"over ci limit", application.ReleaseResult{Log: completed, Report: pass, Analysis: over}, 1},
		{"aborted", application.ReleaseResult{Log: &domain.DeploymentLog{State: domain.RunAborted}, Report: pass, Analysis: within}, 1},
		{"no verification", application.ReleaseResult{Log: completed}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.res.ExitCode())
		})
	}
}
