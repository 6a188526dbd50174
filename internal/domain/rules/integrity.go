package rules

import (
	"path"
	"regexp"
	"strings"

	"github.com/abdidvp/shipgate/internal/domain"
)

var (
	titleTag     = regexp.MustCompile(`(?is)<title[^>]*>`)
	viewportMeta = regexp.MustCompile(`(?is)<meta[^>]+name\s*=\s*["']?viewport`)
)

// checkIntegrity inspects the content of the HTML entry, the main script and
// the worker script.
func checkIntegrity(snap *domain.BuildSnapshot, cfg Config) []domain.CheckResult {
	var out []domain.CheckResult
	out = append(out, checkHTMLEntry(snap, cfg.Entry)...)

	if a, ok := snap.Artifact(cfg.Entry.MainScript); ok {
		if a.SizeBytes > 0 {
			out = append(out, pass("integrity.main_script_nonempty", "%s is not empty (%s)", a.RelativePath, domain.FormatBytes(a.SizeBytes)))
		} else {
			out = append(out, fail("integrity.main_script_nonempty", "%s is empty", a.RelativePath))
		}
	}

	// A missing worker is reported by the structure group only.
	if a, ok := snap.Artifact(cfg.Entry.WorkerScript); ok {
		if a.SizeBytes > 0 {
			out = append(out, pass("integrity.worker_nonempty", "%s is not empty (%s)", a.RelativePath, domain.FormatBytes(a.SizeBytes)))
		} else {
			out = append(out, fail("integrity.worker_nonempty", "%s is empty", a.RelativePath))
		}
		content, _ := snap.Content(cfg.Entry.WorkerScript)
		if strings.Contains(strings.ToLower(content), "cache") {
			out = append(out, pass("integrity.worker_caching", "%s contains caching logic", a.RelativePath))
		} else {
			out = append(out, fail("integrity.worker_caching", "%s contains no caching logic", a.RelativePath))
		}
	}
	return out
}

func checkHTMLEntry(snap *domain.BuildSnapshot, entry domain.EntryLayout) []domain.CheckResult {
	html, ok := snap.Content(entry.HTML)
	if !ok {
		return []domain.CheckResult{fail("integrity.html_present", "%s not found for integrity check", entry.HTML)}
	}

	script := path.Base(entry.MainScript)
	manifest := path.Base(entry.Manifest)
	return []domain.CheckResult{
		expect("integrity.html_title", titleTag.MatchString(html),
			"title tag present", "title tag missing"),
		expect("integrity.html_script_ref", strings.Contains(html, script),
			script+" referenced", script+" not referenced"),
		expect("integrity.html_manifest_ref", strings.Contains(html, manifest),
			manifest+" referenced", manifest+" not referenced"),
		expect("integrity.html_viewport", viewportMeta.MatchString(html),
			"viewport meta tag present", "viewport meta tag missing"),
	}
}

// expect picks one of two fixed messages by outcome.
func expect(id string, ok bool, passMsg, failMsg string) domain.CheckResult {
	if ok {
		return pass(id, "%s", passMsg)
	}
	return fail(id, "%s", failMsg)
}
