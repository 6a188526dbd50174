package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdidvp/shipgate/internal/domain"
	"go.uber.org/zap"
)

// tailBytes is how much trailing output is kept for the deployment log.
const tailBytes = 4096

// ExecRunner implements domain.CommandRunner by running collaborator
// commands on the host.
type ExecRunner struct {
	logger *zap.Logger
	output io.Writer
}

// New creates a runner. Command output is copied to output when it is
// non-nil.
func New(logger *zap.Logger, output io.Writer) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{logger: logger, output: output}
}

// Run executes cmd with its working directory resolved against dir. A
// non-zero exit, a start failure or a cancelled context is returned as an
// error together with the partial result.
func (r *ExecRunner) Run(ctx context.Context, dir string, cmd domain.PhaseCommand) (*domain.CommandResult, error) {
	if !cmd.Configured() {
		return nil, errors.New("empty command")
	}

	workDir := dir
	if cmd.Dir != "" {
		if filepath.IsAbs(cmd.Dir) {
			workDir = cmd.Dir
		} else {
			workDir = filepath.Join(dir, cmd.Dir)
		}
	}

	result := &domain.CommandResult{Command: strings.Join(cmd.Command, " "), ExitCode: -1}

	c := exec.CommandContext(ctx, cmd.Command[0], cmd.Command[1:]...)
	c.Dir = workDir
	c.Env = append(os.Environ(), cmd.Env...)

	tail := &tailWriter{max: tailBytes}
	var out io.Writer = tail
	if r.output != nil {
		out = io.MultiWriter(tail, r.output)
	}
	c.Stdout = out
	c.Stderr = out

	r.logger.Debug("running command", zap.String("command", result.Command), zap.String("dir", workDir))
	start := time.Now()
	err := c.Run()
	result.DurationMs = time.Since(start).Milliseconds()
	result.OutputTail = tail.String()

	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("%s: %w", result.Command, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("%s exited with code %d: %w", result.Command, result.ExitCode, err)
		}
		return result, fmt.Errorf("starting %s: %w", result.Command, err)
	}

	result.ExitCode = 0
	return result, nil
}

// tailWriter keeps the last max bytes written to it.
type tailWriter struct {
	max int
	buf []byte
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	if over := len(w.buf) - w.max; over > 0 {
		w.buf = append(w.buf[:0], w.buf[over:]...)
	}
	return len(p), nil
}

func (w *tailWriter) String() string {
	return strings.TrimSpace(string(w.buf))
}
