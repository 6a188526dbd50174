package runner_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abdidvp/shipgate/internal/adapters/outbound/runner"
	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sh(script string) domain.PhaseCommand {
	return domain.PhaseCommand{Command: []string{"sh", "-c", script}}
}

func TestExecRunner_Success(t *testing.T) {
	var out bytes.Buffer
	r := runner.New(nil, &out)

	res, err := r.Run(context.Background(), t.TempDir(), sh("echo building; echo done >&2"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "sh -c echo building; echo done >&2", res.Command)
	assert.Contains(t, res.OutputTail, "building")
	assert.Contains(t, res.OutputTail, "done")
	assert.Contains(t, out.String(), "building")
}

func TestExecRunner_WorkingDirectoryAndEnv(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, "web"), 0755))

	cmd := sh("pwd; echo $SHIPGATE_TEST_VALUE")
	cmd.Dir = "web"
	cmd.Env = []string{"SHIPGATE_TEST_VALUE=hello"}

	res, err := runner.New(nil, nil).Run(context.Background(), project, cmd)
	require.NoError(t, err)
	assert.Contains(t, res.OutputTail, "web")
	assert.Contains(t, res.OutputTail, "hello")
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	res, err := runner.New(nil, nil).Run(context.Background(), t.TempDir(), sh("echo boom; exit 3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 3")
	require.NotNil(t, res)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "boom", res.OutputTail)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := runner.New(nil, nil).Run(context.Background(), t.TempDir(),
		domain.PhaseCommand{Command: []string{"shipgate-no-such-binary"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting shipgate-no-such-binary")
}

func TestExecRunner_EmptyCommand(t *testing.T) {
	_, err := runner.New(nil, nil).Run(context.Background(), t.TempDir(), domain.PhaseCommand{})
	assert.Error(t, err)
}

func TestExecRunner_ContextCancelKillsCommand(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := runner.New(nil, nil).Run(ctx, t.TempDir(), domain.PhaseCommand{Command: []string{"sleep", "5"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecRunner_KeepsOutputTail(t *testing.T) {
	res, err := runner.New(nil, nil).Run(context.Background(), t.TempDir(),
		sh("i=0; while [ $i -lt 2000 ]; do echo line-$i; i=$((i+1)); done"))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.OutputTail), 4096)
	assert.True(t, strings.HasSuffix(res.OutputTail, "line-1999"))
	assert.NotContains(t, res.OutputTail, "line-0\n")
}
