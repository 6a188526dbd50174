package rules

import (
	"slices"

	"github.com/abdidvp/shipgate/internal/domain"
)

// AuditChecks compares audit scores against per-category minimums. One
// check is produced per threshold, in category name order. A category the
// audit did not report fails.
func AuditChecks(scores domain.AuditScores, thresholds map[string]int) []domain.CheckResult {
	names := make([]string, 0, len(thresholds))
	for name := range thresholds {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]domain.CheckResult, 0, len(names))
	for _, name := range names {
		id := auditPrefix + name
		minimum := thresholds[name]
		score, ok := scores[name]
		switch {
		case !ok:
			out = append(out, fail(id, "%s score not reported by audit (min %d)", name, minimum))
		case score >= float64(minimum):
			out = append(out, pass(id, "%s score %.0f (min %d)", name, score, minimum))
		default:
			out = append(out, fail(id, "%s score %.0f below minimum %d", name, score, minimum))
		}
	}
	return out
}

// AuditUnavailable records an audit that could not be completed.
func AuditUnavailable(err error) domain.CheckResult {
	return fail("performance.audit_run", "audit could not be completed: %v", err)
}
