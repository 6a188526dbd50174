package rules

import (
	"fmt"
	"strings"

	"github.com/abdidvp/shipgate/internal/domain"
)

// auditPrefix namespaces the per-category extended audit checks.
const auditPrefix = "performance.audit."

// Severity maps every check ID to whether a failure of that check can by
// itself fail the release. Audit category checks (performance.audit.*) are
// never critical.
var Severity = map[string]bool{
	"files.html_entry":    true,
	"files.main_script":   true,
	"files.worker_script": true,
	"files.manifest":      true,
	"files.assets_dir":    true,
	"files.favicon":       false,
	"files.sitemap":       false,
	"files.robots":        false,

	"integrity.html_present":         true,
	"integrity.html_title":           true,
	"integrity.html_script_ref":      true,
	"integrity.html_manifest_ref":    true,
	"integrity.html_viewport":        true,
	"integrity.main_script_nonempty": true,
	"integrity.worker_nonempty":      true,
	"integrity.worker_caching":       true,

	"performance.main_script_size":     false,
	"performance.html_size":            false,
	"performance.manifest_size":        false,
	"performance.image_variants":       false,
	"performance.main_script_minified": false,
	"performance.audit_run":            false,

	"security.dangerous_patterns": true,
	"security.csp":                false,
	"security.https_only":         false,
	"security.disclosure_file":    false,
	"security.crawler_directives": false,
}

// IsCritical looks up a check ID in the severity table.
func IsCritical(id string) bool {
	if strings.HasPrefix(id, auditPrefix) {
		return false
	}
	return Severity[id]
}

// categoryOf derives the check category from the ID prefix.
func categoryOf(id string) domain.CheckCategory {
	prefix, _, _ := strings.Cut(id, ".")
	return domain.CheckCategory(prefix)
}

func newResult(id string, passed bool, format string, args ...any) domain.CheckResult {
	return domain.CheckResult{
		ID:       id,
		Category: categoryOf(id),
		Passed:   passed,
		Message:  fmt.Sprintf(format, args...),
		Critical: IsCritical(id),
	}
}

func pass(id, format string, args ...any) domain.CheckResult {
	return newResult(id, true, format, args...)
}

func fail(id, format string, args ...any) domain.CheckResult {
	return newResult(id, false, format, args...)
}

// advisory records a passed check that still deserves attention.
func advisory(id, format string, args ...any) domain.CheckResult {
	r := newResult(id, true, "WARNING: "+format, args...)
	r.Warning = true
	return r
}
