package application_test

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/abdidvp/shipgate/internal/testutil"
)

// fakeRunner records commands instead of running them.
type fakeRunner struct {
	calls []string
	fail  map[string]error
}

func (r *fakeRunner) Run(_ context.Context, _ string, cmd domain.PhaseCommand) (*domain.CommandResult, error) {
	line := strings.Join(cmd.Command, " ")
	r.calls = append(r.calls, line)
	if err, ok := r.fail[line]; ok {
		return &domain.CommandResult{Command: line, ExitCode: 1}, err
	}
	return &domain.CommandResult{Command: line}, nil
}

type fakeAuditor struct {
	scores domain.AuditScores
	err    error
}

func (a *fakeAuditor) Audit(context.Context, string) (domain.AuditScores, error) {
	return a.scores, a.err
}

type fakeArchiver struct {
	archived []string
	err      error
}

func (a *fakeArchiver) Archive(_ context.Context, log *domain.DeploymentLog) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.archived = append(a.archived, log.RunID)
	return "s3://releases/" + log.RunID + ".json", nil
}

type memoryHistory struct {
	logs []domain.DeploymentLog
}

func (h *memoryHistory) Save(_ string, log *domain.DeploymentLog) error {
	h.logs = append(h.logs, *log)
	return nil
}

func (h *memoryHistory) Load(string) ([]domain.DeploymentLog, error) {
	return slices.Clone(h.logs), nil
}

type fixedCommit string

func (c fixedCommit) CommitHash(string) (string, error) {
	if c == "" {
		return "", errors.New("not a git repository")
	}
	return string(c), nil
}

// newProject writes a flutter build below <project>/build/web.
func newProject(t *testing.T, b testutil.Build) (string, domain.GateConfig) {
	t.Helper()
	project := t.TempDir()
	testutil.WriteFlutterBuild(t, filepath.Join(project, "build", "web"), b)
	return project, domain.DefaultConfig()
}

func missingWorkerBuild() testutil.Build {
	return testutil.Build{
		MainScriptBytes: 3 * 1024 * 1024,
		OmitWorker:      true,
		OmitSEO:         true,
		Images: map[string]int{
			"images/one.png": 300 * 1024,
			"images/two.png": 300 * 1024,
		},
	}
}
