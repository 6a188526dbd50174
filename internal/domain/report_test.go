package domain_test

import (
	"testing"
	"time"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counts(files, integrity, performance, security int) map[domain.CheckCategory]*domain.CategoryReport {
	return map[domain.CheckCategory]*domain.CategoryReport{
		domain.CheckFiles:       {FailedCount: files},
		domain.CheckIntegrity:   {FailedCount: integrity},
		domain.CheckPerformance: {FailedCount: performance},
		domain.CheckSecurity:    {FailedCount: security},
	}
}

func TestComputeOverallStatus(t *testing.T) {
	tests := []struct {
		name string
		cats map[domain.CheckCategory]*domain.CategoryReport
		want domain.OverallStatus
	}{
		{"all clean", counts(0, 0, 0, 0), domain.StatusPass},
		{"performance failure only", counts(0, 0, 1, 0), domain.StatusPassWithWarnings},
		{"security failure only", counts(0, 0, 0, 2), domain.StatusPassWithWarnings},
		{"files failure", counts(1, 0, 0, 0), domain.StatusFail},
		{"integrity failure", counts(0, 1, 3, 0), domain.StatusFail},
		{"empty", map[domain.CheckCategory]*domain.CategoryReport{}, domain.StatusPass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ComputeOverallStatus(tt.cats))
		})
	}
}

func TestComputeOverallStatus_CriticalOutsideFilesFails(t *testing.T) {
	cats := counts(0, 0, 0, 1)
	cats[domain.CheckSecurity].Details = []domain.CheckResult{
		{ID: "security.dangerous_patterns", Category: domain.CheckSecurity, Critical: true},
	}
	assert.Equal(t, domain.StatusFail, domain.ComputeOverallStatus(cats))
}

func TestAggregate_DangerousPatternOnlyFails(t *testing.T) {
	results := []domain.CheckResult{
		{ID: "files.html_entry", Category: domain.CheckFiles, Passed: true, Critical: true},
		{ID: "integrity.html_title", Category: domain.CheckIntegrity, Passed: true, Critical: true},
		{ID: "security.dangerous_patterns", Category: domain.CheckSecurity, Passed: false, Critical: true, Message: "dangerous patterns found: eval("},
	}

	report := domain.Aggregate("build/web", results, time.Time{})

	assert.Equal(t, 0, report.Categories[domain.CheckFiles].FailedCount+report.Categories[domain.CheckIntegrity].FailedCount)
	assert.Equal(t, domain.StatusFail, report.Summary.OverallStatus)
}

func TestAggregate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	results := []domain.CheckResult{
		{ID: "files.html_entry", Category: domain.CheckFiles, Passed: true, Critical: true},
		{ID: "files.sitemap", Category: domain.CheckFiles, Passed: true, Warning: true, Message: "WARNING: sitemap.xml missing"},
		{ID: "performance.image_variants", Category: domain.CheckPerformance, Passed: false, Message: "no optimized image variants found"},
		{ID: "security.csp", Category: domain.CheckSecurity, Passed: true},
	}

	report := domain.Aggregate("/srv/build/web", results, now)

	require.Len(t, report.Categories, 4)
	assert.Equal(t, now, report.Timestamp)
	assert.Equal(t, "/srv/build/web", report.BuildDirectory)
	assert.Equal(t, 2, report.Categories[domain.CheckFiles].PassedCount)
	assert.Equal(t, 0, report.Categories[domain.CheckIntegrity].PassedCount)
	assert.NotNil(t, report.Categories[domain.CheckIntegrity].Details)
	assert.Equal(t, 1, report.Categories[domain.CheckPerformance].FailedCount)
	assert.Equal(t, domain.Summary{
		TotalTests:    4,
		TotalPassed:   3,
		TotalFailed:   1,
		OverallStatus: domain.StatusPassWithWarnings,
	}, report.Summary)

	assert.Equal(t, []string{"WARNING: sitemap.xml missing", "no optimized image variants found"}, report.Warnings())
	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "performance.image_variants", failures[0].ID)
}

func TestAggregate_Empty(t *testing.T) {
	report := domain.Aggregate("build", nil, time.Time{})
	assert.Equal(t, domain.StatusPass, report.Summary.OverallStatus)
	assert.Equal(t, 0, report.Summary.TotalTests)
	assert.Len(t, report.Categories, 4)
}
