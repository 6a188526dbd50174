package rules

import (
	"strings"

	"github.com/abdidvp/shipgate/internal/domain"
)

// DisclosureFile is the security contact file expected in the build tree.
const DisclosureFile = ".well-known/security.txt"

var dangerousPatterns = []string{"eval(", "new Function(", "innerHTML", "document.write("}

func checkSecurity(snap *domain.BuildSnapshot, cfg Config) []domain.CheckResult {
	var out []domain.CheckResult

	if html, ok := snap.Content(cfg.Entry.HTML); ok {
		var found []string
		for _, p := range dangerousPatterns {
			if strings.Contains(html, p) {
				found = append(found, p)
			}
		}
		if len(found) == 0 {
			out = append(out, pass("security.dangerous_patterns", "no dangerous inline patterns in %s", cfg.Entry.HTML))
		} else {
			out = append(out, fail("security.dangerous_patterns", "dangerous inline patterns in %s: %s", cfg.Entry.HTML, strings.Join(found, ", ")))
		}

		out = append(out,
			expect("security.csp", strings.Contains(strings.ToLower(html), "content-security-policy"),
				"Content-Security-Policy configured", "Content-Security-Policy missing"),
		)
		switch {
		case strings.Contains(html, "http://"):
			out = append(out, fail("security.https_only", "insecure http:// URLs referenced"))
		case !strings.Contains(html, "https://"):
			out = append(out, fail("security.https_only", "no https:// URLs referenced"))
		default:
			out = append(out, pass("security.https_only", "only HTTPS URLs referenced"))
		}
	}

	out = append(out, expect("security.disclosure_file", snap.Kind(DisclosureFile) == domain.PathFile,
		DisclosureFile+" present", DisclosureFile+" missing"))

	if robots, ok := snap.Content("robots.txt"); ok {
		out = append(out, expect("security.crawler_directives", strings.Contains(robots, "Disallow:"),
			"robots.txt restricts crawlers", "robots.txt has no Disallow directives"))
	}
	return out
}
