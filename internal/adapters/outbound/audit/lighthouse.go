package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strings"
	"time"

	"github.com/abdidvp/shipgate/internal/domain"
	"go.uber.org/zap"
)

// BuildDirPlaceholder in a command argument is replaced by the build directory.
const BuildDirPlaceholder = "{build_dir}"

// CommandAuditor implements domain.AuditRunner by running an external audit
// command that prints a Lighthouse-style JSON report on stdout.
type CommandAuditor struct {
	command []string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates an auditor from the audit configuration.
func New(cfg domain.AuditConfig, logger *zap.Logger) *CommandAuditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandAuditor{
		command: cfg.Command,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  logger,
	}
}

type lighthouseReport struct {
	Categories map[string]struct {
		Score *float64 `json:"score"`
	} `json:"categories"`
	LHR *lighthouseReport `json:"lhr"`
}

// Audit runs the audit command and returns category scores scaled to 0-100.
func (a *CommandAuditor) Audit(ctx context.Context, buildDir string) (domain.AuditScores, error) {
	if len(a.command) == 0 {
		return nil, errors.New("no audit command configured")
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	args := make([]string, len(a.command))
	for i, arg := range a.command {
		args[i] = strings.ReplaceAll(arg, BuildDirPlaceholder, buildDir)
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Dir = buildDir
	c.Stdout = &stdout
	c.Stderr = &stderr

	a.logger.Debug("running audit", zap.Strings("command", args), zap.Duration("timeout", a.timeout))
	if err := c.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("audit timed out after %s: %w", a.timeout, ctx.Err())
		}
		return nil, fmt.Errorf("audit command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return ParseScores(stdout.Bytes())
}

// ParseScores extracts category scores from a Lighthouse JSON report. The
// report may be the bare result or wrapped in an "lhr" object.
func ParseScores(data []byte) (domain.AuditScores, error) {
	var rep lighthouseReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing audit report: %w", err)
	}
	if rep.LHR != nil {
		rep = *rep.LHR
	}
	if len(rep.Categories) == 0 {
		return nil, errors.New("audit report has no categories")
	}

	scores := make(domain.AuditScores, len(rep.Categories))
	for name, c := range rep.Categories {
		if c.Score == nil {
			continue
		}
		scores[name] = math.Round(*c.Score * 100)
	}
	return scores, nil
}
