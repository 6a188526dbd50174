package application

import (
	"context"
	"errors"
	"time"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Phase is one step of a release run.
type Phase interface {
	Name() string
	Run(ctx context.Context) (domain.PhaseOutcome, error)
}

type phaseFunc struct {
	name string
	run  func(context.Context) (domain.PhaseOutcome, error)
}

func (p phaseFunc) Name() string { return p.name }

func (p phaseFunc) Run(ctx context.Context) (domain.PhaseOutcome, error) { return p.run(ctx) }

// NewPhase adapts a function into a Phase.
func NewPhase(name string, run func(context.Context) (domain.PhaseOutcome, error)) Phase {
	return phaseFunc{name: name, run: run}
}

// Pipeline runs phases strictly in order:
// idle → running → completed when every phase ran, or aborted at the first
// failing phase. A failed phase is never retried and no later phase runs.
type Pipeline struct {
	phases []Phase
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewPipeline(logger *zap.Logger, phases ...Phase) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		phases: phases,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// WithClock replaces the clock used for timestamps and durations.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run executes the phases and always returns the deployment log. The error
// is the *domain.PhaseError that aborted the run, or nil when it completed.
func (p *Pipeline) Run(ctx context.Context) (*domain.DeploymentLog, error) {
	log := &domain.DeploymentLog{
		RunID:     p.newID(),
		StartedAt: p.now(),
		State:     domain.RunIdle,
		Phases:    []domain.PipelinePhase{},
		Errors:    []domain.PhaseErrorRecord{},
		Warnings:  []string{},
	}
	logger := p.logger.With(zap.String("run_id", log.RunID))

	if err := log.Transition(domain.RunIdle, domain.RunRunning); err != nil {
		return log, err
	}

	var failure error
	for _, ph := range p.phases {
		if err := ctx.Err(); err != nil {
			failure = p.abort(log, ph.Name(), err)
			logger.Warn("run cancelled", zap.String("phase", ph.Name()))
			break
		}

		logger.Info("phase started", zap.String("phase", ph.Name()))
		start := p.now()
		outcome, err := ph.Run(ctx)
		record := domain.PipelinePhase{
			Name:       ph.Name(),
			DurationMs: p.now().Sub(start).Milliseconds(),
			Details:    outcome.Details,
		}
		log.Warnings = append(log.Warnings, outcome.Warnings...)

		switch {
		case err == nil:
			record.Status = domain.PhaseSuccess
			log.Phases = append(log.Phases, record)
			logger.Info("phase finished", zap.String("phase", ph.Name()), zap.Int64("duration_ms", record.DurationMs))
			continue

		case errors.Is(err, domain.ErrPhaseSkipped):
			record.Status = domain.PhaseSkipped
			log.Phases = append(log.Phases, record)
			logger.Info("phase skipped", zap.String("phase", ph.Name()))
			continue
		}

		record.Status = domain.PhaseFailed
		log.Phases = append(log.Phases, record)
		failure = p.abort(log, ph.Name(), err)
		logger.Error("phase failed, aborting run", zap.String("phase", ph.Name()), zap.Error(err))
		break
	}

	log.FinishedAt = p.now()
	if failure != nil {
		return log, failure
	}
	if err := log.Transition(domain.RunRunning, domain.RunCompleted); err != nil {
		return log, err
	}
	logger.Info("run completed", zap.Int64("duration_ms", log.DurationMs()))
	return log, nil
}

func (p *Pipeline) abort(log *domain.DeploymentLog, phase string, err error) error {
	perr := &domain.PhaseError{Phase: phase, Err: err}
	rec := domain.PhaseErrorRecord{Phase: phase, Message: perr.Error()}
	if cause := rootCause(err); cause != err {
		rec.Cause = cause.Error()
	}
	log.Errors = append(log.Errors, rec)
	if terr := log.Transition(domain.RunRunning, domain.RunAborted); terr != nil {
		return terr
	}
	return perr
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
