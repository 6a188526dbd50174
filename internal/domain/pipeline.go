package domain

import (
	"fmt"
	"time"
)

// Phase names in execution order.
const (
	PhaseDependencies = "dependencies"
	PhaseBuild        = "build"
	PhaseOptimize     = "optimize"
	PhaseSEO          = "seo"
	PhaseVerify       = "verify"
)

// PhaseOrder is the fixed order of a release run.
var PhaseOrder = []string{PhaseDependencies, PhaseBuild, PhaseOptimize, PhaseSEO, PhaseVerify}

// CommandPhases are the phases delegated to external collaborator commands.
var CommandPhases = []string{PhaseDependencies, PhaseBuild, PhaseOptimize, PhaseSEO}

type PhaseStatus string

const (
	PhaseSuccess PhaseStatus = "SUCCESS"
	PhaseFailed  PhaseStatus = "FAILED"
	PhaseSkipped PhaseStatus = "SKIPPED"
)

// RunState is the orchestrator state of one release run.
type RunState string

const (
	RunIdle      RunState = "idle"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunAborted   RunState = "aborted"
)

// IsTerminal reports whether a run has finished.
func (s RunState) IsTerminal() bool {
	return s == RunCompleted || s == RunAborted
}

func isAllowedTransition(from, to RunState) bool {
	switch from {
	case RunIdle:
		return to == RunRunning
	case RunRunning:
		return to == RunCompleted || to == RunAborted
	default:
		return false
	}
}

// PipelinePhase records the outcome of one executed phase.
type PipelinePhase struct {
	Name       string      `json:"name"`
	Status     PhaseStatus `json:"status"`
	DurationMs int64       `json:"duration_ms"`
	Details    any         `json:"details,omitempty"`
}

type PhaseErrorRecord struct {
	Phase   string `json:"phase"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// PhaseOutcome is what a phase hands back to the orchestrator.
type PhaseOutcome struct {
	Details  any
	Warnings []string
}

// DeploymentLog is the record of one release run.
type DeploymentLog struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	State      RunState           `json:"state"`
	CommitHash string             `json:"commit_hash,omitempty"`
	Phases     []PipelinePhase    `json:"phases"`
	Errors     []PhaseErrorRecord `json:"errors"`
	Warnings   []string           `json:"warnings"`
}

// Transition moves the run from one state to the next. The expected prior
// state makes out-of-order transitions observable.
func (l *DeploymentLog) Transition(from, to RunState) error {
	if l.State != from {
		return fmt.Errorf("invalid transition for run %s: expected %s, got %s", l.RunID, from, l.State)
	}
	if from.IsTerminal() {
		return fmt.Errorf("run %s already %s", l.RunID, from)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed transition for run %s: %s -> %s", l.RunID, from, to)
	}
	l.State = to
	return nil
}

// DurationMs is the wall time of the whole run.
func (l *DeploymentLog) DurationMs() int64 {
	if l.FinishedAt.IsZero() {
		return 0
	}
	return l.FinishedAt.Sub(l.StartedAt).Milliseconds()
}

// Phase returns the recorded phase with the given name.
func (l *DeploymentLog) Phase(name string) (PipelinePhase, bool) {
	for _, p := range l.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return PipelinePhase{}, false
}

// VerifyDetails is the payload recorded for the verify phase.
type VerifyDetails struct {
	Summary            Summary        `json:"summary"`
	Budget             BudgetDecision `json:"budget"`
	VerificationReport string         `json:"verification_report,omitempty"`
	BundleReport       string         `json:"bundle_report,omitempty"`
}

// CommandResult describes one collaborator command invocation.
type CommandResult struct {
	Command    string `json:"command"`
	ExitCode   int    `json:"exit_code"`
	DurationMs int64  `json:"duration_ms"`
	OutputTail string `json:"output_tail,omitempty"`
}
