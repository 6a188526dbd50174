package audit_test

import (
	"context"
	"testing"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/audit"
	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const report = `{"categories":{"performance":{"score":0.91},"accessibility":{"score":0.876},"seo":{"score":null}}}`

func TestParseScores(t *testing.T) {
	scores, err := audit.ParseScores([]byte(report))
	require.NoError(t, err)
	assert.Equal(t, domain.AuditScores{"performance": 91, "accessibility": 88}, scores)
}

func TestParseScores_WrappedReport(t *testing.T) {
	scores, err := audit.ParseScores([]byte(`{"lhr":` + report + `}`))
	require.NoError(t, err)
	assert.InDelta(t, 91.0, scores["performance"], 0.001)
}

func TestParseScores_Invalid(t *testing.T) {
	_, err := audit.ParseScores([]byte(`not json`))
	assert.Error(t, err)

	_, err = audit.ParseScores([]byte(`{"categories":{}}`))
	assert.Error(t, err)
}

func TestCommandAuditor_Audit(t *testing.T) {
	dir := t.TempDir()
	a := audit.New(domain.AuditConfig{
		Command:        []string{"sh", "-c", "test -d \"$0\" && echo '" + report + "'", audit.BuildDirPlaceholder},
		TimeoutSeconds: 10,
	}, nil)

	scores, err := a.Audit(context.Background(), dir)
	require.NoError(t, err)
	assert.InDelta(t, 91.0, scores["performance"], 0.001)
}

func TestCommandAuditor_Timeout(t *testing.T) {
	a := audit.New(domain.AuditConfig{Command: []string{"sleep", "5"}, TimeoutSeconds: 1}, nil)

	_, err := a.Audit(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestCommandAuditor_Failure(t *testing.T) {
	a := audit.New(domain.AuditConfig{Command: []string{"sh", "-c", "echo chrome not found >&2; exit 1"}, TimeoutSeconds: 5}, nil)

	_, err := a.Audit(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome not found")
}

func TestCommandAuditor_NotConfigured(t *testing.T) {
	_, err := audit.New(domain.AuditConfig{TimeoutSeconds: 5}, nil).Audit(context.Background(), t.TempDir())
	assert.Error(t, err)
}
