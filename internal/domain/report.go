package domain

import (
	"slices"
	"time"
)

// CheckCategory is one of the four rule groups.
type CheckCategory string

const (
	CheckFiles       CheckCategory = "files"
	CheckIntegrity   CheckCategory = "integrity"
	CheckPerformance CheckCategory = "performance"
	CheckSecurity    CheckCategory = "security"
)

// CheckCategories lists the rule groups in evaluation order.
var CheckCategories = []CheckCategory{CheckFiles, CheckIntegrity, CheckPerformance, CheckSecurity}

// CheckResult is the outcome of a single verification rule.
type CheckResult struct {
	ID       string        `json:"id"`
	Category CheckCategory `json:"category"`
	Passed   bool          `json:"passed"`
	Message  string        `json:"message"`
	Critical bool          `json:"critical"`
	Warning  bool          `json:"warning,omitempty"`
}

// CategoryReport accumulates the results of one rule group.
type CategoryReport struct {
	PassedCount int           `json:"passed"`
	FailedCount int           `json:"failed"`
	Details     []CheckResult `json:"details"`
}

func (c *CategoryReport) add(r CheckResult) {
	if r.Passed {
		c.PassedCount++
	} else {
		c.FailedCount++
	}
	c.Details = append(c.Details, r)
}

// OverallStatus is the release verdict.
type OverallStatus string

const (
	StatusPass             OverallStatus = "PASS"
	StatusPassWithWarnings OverallStatus = "PASS_WITH_WARNINGS"
	StatusFail             OverallStatus = "FAIL"
)

type Summary struct {
	TotalTests    int           `json:"total_tests"`
	TotalPassed   int           `json:"total_passed"`
	TotalFailed   int           `json:"total_failed"`
	OverallStatus OverallStatus `json:"overall_status"`
}

// VerificationReport is the aggregated result of one verification pass.
type VerificationReport struct {
	Timestamp      time.Time                         `json:"timestamp"`
	BuildDirectory string                            `json:"build_directory"`
	CommitHash     string                            `json:"commit_hash,omitempty"`
	Categories     map[CheckCategory]*CategoryReport `json:"categories"`
	Summary        Summary                           `json:"summary"`
}

// Aggregate reduces check results into a report. All four categories are
// always present, details keep the order of results.
func Aggregate(buildDir string, results []CheckResult, now time.Time) *VerificationReport {
	cats := make(map[CheckCategory]*CategoryReport, len(CheckCategories))
	for _, c := range CheckCategories {
		cats[c] = &CategoryReport{Details: []CheckResult{}}
	}

	var sum Summary
	for _, r := range results {
		rep, ok := cats[r.Category]
		if !ok {
			rep = &CategoryReport{Details: []CheckResult{}}
			cats[r.Category] = rep
		}
		rep.add(r)
		sum.TotalTests++
		if r.Passed {
			sum.TotalPassed++
		} else {
			sum.TotalFailed++
		}
	}
	sum.OverallStatus = ComputeOverallStatus(cats)

	return &VerificationReport{
		Timestamp:      now,
		BuildDirectory: buildDir,
		Categories:     cats,
		Summary:        sum,
	}
}

// ComputeOverallStatus derives the verdict from category counts. Any failure
// in files or integrity fails the release, as does any failed check marked
// critical elsewhere. Remaining failures only downgrade to a warning.
//
// The critical clause widens the files+integrity rule on purpose: severity
// is a per-check property, so security.dangerous_patterns blocks a release
// on its own.
func ComputeOverallStatus(categories map[CheckCategory]*CategoryReport) OverallStatus {
	blocking := 0
	for _, c := range []CheckCategory{CheckFiles, CheckIntegrity} {
		if rep := categories[c]; rep != nil {
			blocking += rep.FailedCount
		}
	}
	if blocking > 0 {
		return StatusFail
	}

	failed := 0
	for _, rep := range categories {
		if rep == nil {
			continue
		}
		failed += rep.FailedCount
		for _, d := range rep.Details {
			if !d.Passed && d.Critical {
				return StatusFail
			}
		}
	}
	if failed > 0 {
		return StatusPassWithWarnings
	}
	return StatusPass
}

// Failures returns the failed checks in category order.
func (r *VerificationReport) Failures() []CheckResult {
	var out []CheckResult
	for _, c := range r.orderedCategories() {
		for _, d := range r.Categories[c].Details {
			if !d.Passed {
				out = append(out, d)
			}
		}
	}
	return out
}

// Warnings returns messages for failed non-critical checks and for advisory
// passes, in category order.
func (r *VerificationReport) Warnings() []string {
	var out []string
	for _, c := range r.orderedCategories() {
		for _, d := range r.Categories[c].Details {
			switch {
			case d.Warning:
				out = append(out, d.Message)
			case !d.Passed && !d.Critical:
				out = append(out, d.Message)
			}
		}
	}
	return out
}

func (r *VerificationReport) orderedCategories() []CheckCategory {
	out := make([]CheckCategory, 0, len(r.Categories))
	seen := make(map[CheckCategory]bool, len(r.Categories))
	for _, c := range CheckCategories {
		if _, ok := r.Categories[c]; ok {
			out = append(out, c)
			seen[c] = true
		}
	}
	var extra []string
	for c := range r.Categories {
		if !seen[c] {
			extra = append(extra, string(c))
		}
	}
	slices.Sort(extra)
	for _, c := range extra {
		out = append(out, CheckCategory(c))
	}
	return out
}
