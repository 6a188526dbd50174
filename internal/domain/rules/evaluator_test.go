package rules_test

import (
	"context"
	"path"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/abdidvp/shipgate/internal/domain/rules"
	"github.com/abdidvp/shipgate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func completeFiles() map[string]string {
	return map[string]string{
		"index.html":                testutil.IndexHTML,
		"main.dart.js":              strings.Repeat("a", 4096),
		"flutter_service_worker.js": testutil.WorkerScript,
		"manifest.json":             `{"name":"Shop"}`,
		"assets/AssetManifest.json": `{}`,
		"favicon.png":               "png",
		"sitemap.xml":               "<urlset></urlset>",
		"robots.txt":                "User-agent: *\nDisallow: /admin/\n",
		".well-known/security.txt":  "Contact: mailto:security@example.com\n",
	}
}

// snapshotOf builds a snapshot whose files all carry their content.
func snapshotOf(files map[string]string, extraDirs ...string) *domain.BuildSnapshot {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	dirSet := map[string]bool{}
	for _, d := range extraDirs {
		dirSet[d] = true
	}
	artifacts := make([]domain.FileArtifact, 0, len(paths))
	for _, p := range paths {
		artifacts = append(artifacts, domain.NewFileArtifact(p, int64(len(files[p]))))
		for d := path.Dir(p); d != "."; d = path.Dir(d) {
			dirSet[d] = true
		}
	}
	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	slices.Sort(dirs)
	return domain.NewBuildSnapshot("/build", artifacts, dirs, files)
}

func evaluate(t *testing.T, snap *domain.BuildSnapshot) []domain.CheckResult {
	t.Helper()
	results, err := rules.Evaluate(context.Background(), snap, rules.ConfigFrom(domain.DefaultConfig()))
	require.NoError(t, err)
	return results
}

func find(results []domain.CheckResult, id string) (domain.CheckResult, bool) {
	for _, r := range results {
		if r.ID == id {
			return r, true
		}
	}
	return domain.CheckResult{}, false
}

func mustFind(t *testing.T, results []domain.CheckResult, id string) domain.CheckResult {
	t.Helper()
	r, ok := find(results, id)
	require.True(t, ok, "missing check %s", id)
	return r
}

func TestEvaluate_CompleteBuildPasses(t *testing.T) {
	results := evaluate(t, snapshotOf(completeFiles()))

	for _, r := range results {
		assert.True(t, r.Passed, "%s: %s", r.ID, r.Message)
		assert.False(t, r.Warning, "%s: %s", r.ID, r.Message)
	}
	report := domain.Aggregate("/build", results, time.Time{})
	assert.Equal(t, domain.StatusPass, report.Summary.OverallStatus)
	assert.Equal(t, 8, report.Categories[domain.CheckFiles].PassedCount)
	assert.Equal(t, 7, report.Categories[domain.CheckIntegrity].PassedCount)
	assert.Equal(t, 5, report.Categories[domain.CheckPerformance].PassedCount)
	assert.Equal(t, 5, report.Categories[domain.CheckSecurity].PassedCount)
}

func TestEvaluate_GroupOrderIsFixed(t *testing.T) {
	results := evaluate(t, snapshotOf(completeFiles()))

	var order []domain.CheckCategory
	for _, r := range results {
		if len(order) == 0 || order[len(order)-1] != r.Category {
			order = append(order, r.Category)
		}
	}
	assert.Equal(t, domain.CheckCategories, order)
	assert.Equal(t, results, evaluate(t, snapshotOf(completeFiles())))
}

func TestEvaluate_EveryCheckHasSeverity(t *testing.T) {
	files := completeFiles()
	delete(files, "flutter_service_worker.js")
	files["assets/a.png"] = "png"
	variants := []*domain.BuildSnapshot{
		snapshotOf(completeFiles()),
		snapshotOf(files),
		snapshotOf(map[string]string{}),
	}
	for _, snap := range variants {
		for _, r := range evaluate(t, snap) {
			critical, ok := rules.Severity[r.ID]
			require.True(t, ok, "check %s missing from severity table", r.ID)
			assert.Equal(t, critical, r.Critical, r.ID)
			assert.Equal(t, domain.CheckCategory(strings.SplitN(r.ID, ".", 2)[0]), r.Category)
		}
	}
}

func TestStructure_MissingCriticalFile(t *testing.T) {
	files := completeFiles()
	delete(files, "flutter_service_worker.js")

	results := evaluate(t, snapshotOf(files))

	r := mustFind(t, results, "files.worker_script")
	assert.False(t, r.Passed)
	assert.True(t, r.Critical)
	assert.Contains(t, r.Message, "CRITICAL: flutter_service_worker.js missing")

	_, ok := find(results, "integrity.worker_nonempty")
	assert.False(t, ok, "a missing worker is a structure failure only")
	_, ok = find(results, "integrity.worker_caching")
	assert.False(t, ok)
}

func TestStructure_MissingOptionalFileIsWarning(t *testing.T) {
	files := completeFiles()
	delete(files, "sitemap.xml")
	delete(files, "favicon.png")

	results := evaluate(t, snapshotOf(files))

	for _, id := range []string{"files.sitemap", "files.favicon"} {
		r := mustFind(t, results, id)
		assert.True(t, r.Passed, id)
		assert.True(t, r.Warning, id)
		assert.True(t, strings.HasPrefix(r.Message, "WARNING: "), r.Message)
	}
	report := domain.Aggregate("/build", results, time.Time{})
	assert.Equal(t, domain.StatusPass, report.Summary.OverallStatus)
}

func TestStructure_FaviconGlobMatchesAnyExtension(t *testing.T) {
	files := completeFiles()
	delete(files, "favicon.png")
	files["favicon.ico"] = "ico"

	r := mustFind(t, evaluate(t, snapshotOf(files)), "files.favicon")
	assert.True(t, r.Passed)
	assert.False(t, r.Warning)
	assert.Contains(t, r.Message, "favicon.ico exists")
}

func TestStructure_KindMismatch(t *testing.T) {
	files := completeFiles()
	delete(files, "assets/AssetManifest.json")
	files["assets"] = "not a directory"
	delete(files, "sitemap.xml")
	files["sitemap.xml/index.xml"] = "<urlset/>"

	results := evaluate(t, snapshotOf(files))

	assets := mustFind(t, results, "files.assets_dir")
	assert.False(t, assets.Passed)
	assert.Contains(t, assets.Message, "assets should be a directory but is a file")

	sitemap := mustFind(t, results, "files.sitemap")
	assert.True(t, sitemap.Passed)
	assert.True(t, sitemap.Warning)
	assert.Contains(t, sitemap.Message, "sitemap.xml should be a file but is a directory")
}

func TestIntegrity_MissingHTML(t *testing.T) {
	files := completeFiles()
	delete(files, "index.html")

	results := evaluate(t, snapshotOf(files))

	r := mustFind(t, results, "integrity.html_present")
	assert.False(t, r.Passed)
	assert.Equal(t, "index.html not found for integrity check", r.Message)
	_, ok := find(results, "integrity.html_title")
	assert.False(t, ok)
	_, ok = find(results, "security.dangerous_patterns")
	assert.False(t, ok)
}

func TestIntegrity_HTMLContent(t *testing.T) {
	files := completeFiles()
	files["index.html"] = `<html><head></head><body><script src="app.js"></script></body></html>`

	results := evaluate(t, snapshotOf(files))

	for _, id := range []string{"integrity.html_title", "integrity.html_script_ref", "integrity.html_manifest_ref", "integrity.html_viewport"} {
		r := mustFind(t, results, id)
		assert.False(t, r.Passed, id)
		assert.True(t, r.Critical, id)
	}
	report := domain.Aggregate("/build", results, time.Time{})
	assert.Equal(t, domain.StatusFail, report.Summary.OverallStatus)
}

func TestIntegrity_EmptyScriptsAndNoCaching(t *testing.T) {
	files := completeFiles()
	files["main.dart.js"] = ""
	files["flutter_service_worker.js"] = "self.addEventListener('fetch', () => {});"

	results := evaluate(t, snapshotOf(files))

	assert.False(t, mustFind(t, results, "integrity.main_script_nonempty").Passed)
	assert.True(t, mustFind(t, results, "integrity.worker_nonempty").Passed)
	assert.False(t, mustFind(t, results, "integrity.worker_caching").Passed)
}

func TestPerformance_ImageVariants(t *testing.T) {
	files := completeFiles()
	files["assets/images/a.png"] = strings.Repeat("x", 300)
	files["assets/images/b.jpg"] = strings.Repeat("x", 300)

	r := mustFind(t, evaluate(t, snapshotOf(files)), "performance.image_variants")
	assert.False(t, r.Passed)
	assert.False(t, r.Critical)
	assert.Contains(t, r.Message, "no optimized image variants found")

	files["assets/images/a.webp"] = "webp"
	r = mustFind(t, evaluate(t, snapshotOf(files)), "performance.image_variants")
	assert.True(t, r.Passed)
}

func TestPerformance_SizeCeilings(t *testing.T) {
	files := completeFiles()
	files["main.dart.js"] = strings.Repeat("a", 11*1024*1024)
	files["index.html"] = testutil.IndexHTML + "<!--" + strings.Repeat("x", 60*1024) + "-->"

	results := evaluate(t, snapshotOf(files))

	main := mustFind(t, results, "performance.main_script_size")
	assert.False(t, main.Passed)
	assert.Contains(t, main.Message, "11 MB")
	assert.Contains(t, main.Message, "est. 2.75 MB compressed")

	assert.False(t, mustFind(t, results, "performance.html_size").Passed)
	assert.True(t, mustFind(t, results, "performance.manifest_size").Passed)

	report := domain.Aggregate("/build", results, time.Time{})
	assert.Equal(t, domain.StatusPassWithWarnings, report.Summary.OverallStatus)
}

func TestPerformance_Minified(t *testing.T) {
	files := completeFiles()
	files["main.dart.js"] = strings.Repeat("function f() {\n  return 1;\n}\n", 100)

	r := mustFind(t, evaluate(t, snapshotOf(files)), "performance.main_script_minified")
	assert.False(t, r.Passed)
}

func TestSecurity_DangerousPatternsFailRelease(t *testing.T) {
	files := completeFiles()
	files["index.html"] = strings.Replace(testutil.IndexHTML, "</body>", `<script>document.body.innerHTML = eval("x")</script></body>`, 1)

	results := evaluate(t, snapshotOf(files))

	r := mustFind(t, results, "security.dangerous_patterns")
	assert.False(t, r.Passed)
	assert.True(t, r.Critical)
	assert.Contains(t, r.Message, "eval(")
	assert.Contains(t, r.Message, "innerHTML")

	report := domain.Aggregate("/build", results, time.Time{})
	assert.Equal(t, domain.StatusFail, report.Summary.OverallStatus)
}

func TestSecurity_AdvisoryChecks(t *testing.T) {
	files := completeFiles()
	files["index.html"] = strings.Replace(testutil.IndexHTML, `<meta http-equiv="Content-Security-Policy" content="default-src 'self' https://fonts.gstatic.com">`, `<link href="http://cdn.example.com/x.css">`, 1)
	files["robots.txt"] = "User-agent: *\nAllow: /\n"
	delete(files, ".well-known/security.txt")

	results := evaluate(t, snapshotOf(files))

	for _, id := range []string{"security.csp", "security.https_only", "security.disclosure_file", "security.crawler_directives"} {
		r := mustFind(t, results, id)
		assert.False(t, r.Passed, id)
		assert.False(t, r.Critical, id)
	}
	report := domain.Aggregate("/build", results, time.Time{})
	assert.Equal(t, domain.StatusPassWithWarnings, report.Summary.OverallStatus)
}

func TestSecurity_HTTPSOnlyNeedsHTTPSReference(t *testing.T) {
	files := completeFiles()
	files["index.html"] = strings.Replace(testutil.IndexHTML, "https://fonts.gstatic.com", "", 1)

	r := mustFind(t, evaluate(t, snapshotOf(files)), "security.https_only")
	assert.False(t, r.Passed)
	assert.False(t, r.Critical)
	assert.Equal(t, "no https:// URLs referenced", r.Message)

	r = mustFind(t, evaluate(t, snapshotOf(completeFiles())), "security.https_only")
	assert.True(t, r.Passed)
}

func TestEvaluate_MissingWorkerScenario(t *testing.T) {
	files := completeFiles()
	delete(files, "flutter_service_worker.js")
	delete(files, "sitemap.xml")
	delete(files, "robots.txt")
	delete(files, "favicon.png")
	files["main.dart.js"] = strings.Repeat("a", 3*1024*1024)
	files["assets/images/one.png"] = strings.Repeat("x", 300*1024)
	files["assets/images/two.png"] = strings.Repeat("x", 300*1024)

	results := evaluate(t, snapshotOf(files))
	report := domain.Aggregate("/build", results, time.Time{})

	assert.Equal(t, domain.StatusFail, report.Summary.OverallStatus)
	assert.Equal(t, 1, report.Categories[domain.CheckFiles].FailedCount)
	assert.Equal(t, 0, report.Categories[domain.CheckIntegrity].FailedCount)
	assert.Equal(t, 1, report.Categories[domain.CheckPerformance].FailedCount)

	main := mustFind(t, results, "performance.main_script_size")
	assert.True(t, main.Passed)
	assert.Contains(t, main.Message, "768 KB")
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := rules.Evaluate(context.Background(), nil, rules.Config{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rules.Evaluate(ctx, snapshotOf(completeFiles()), rules.ConfigFrom(domain.DefaultConfig()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequiredManifest(t *testing.T) {
	entries := rules.RequiredManifest(domain.DefaultConfigForProfile(domain.ProfileSPA).Entry)
	require.Len(t, entries, 8)
	assert.Equal(t, "main.js", entries[1].Path)
	assert.True(t, entries[4].MustBeDirectory)
	assert.True(t, entries[5].Glob())
	assert.False(t, entries[5].Critical)
	assert.True(t, entries[0].Critical)
}
