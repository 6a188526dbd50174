package domain

import (
	"errors"
	"fmt"
)

// ErrPhaseSkipped is returned by a phase that has nothing to do.
var ErrPhaseSkipped = errors.New("phase skipped")

// ScanError reports a build root that cannot be scanned.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning build directory %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// BudgetBreachError reports a compressed bundle size above the CI limit.
type BudgetBreachError struct {
	CompressedTotalMB float64
	CILimitMB         float64
}

func (e *BudgetBreachError) Error() string {
	return fmt.Sprintf("bundle size %.2f MB exceeds CI limit of %.2f MB", e.CompressedTotalMB, e.CILimitMB)
}

// PhaseError wraps the failure of a pipeline phase.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase %s failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
