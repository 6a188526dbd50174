package rules

import (
	"fmt"

	"github.com/abdidvp/shipgate/internal/domain"
)

// checkStructure verifies every manifest entry exists with the right kind.
func checkStructure(snap *domain.BuildSnapshot, cfg Config) []domain.CheckResult {
	manifest := RequiredManifest(cfg.Entry)
	out := make([]domain.CheckResult, 0, len(manifest))
	for _, e := range manifest {
		out = append(out, checkEntry(snap, e))
	}
	return out
}

func checkEntry(snap *domain.BuildSnapshot, e ManifestEntry) domain.CheckResult {
	rel, kind := resolveEntry(snap, e)

	var problem string
	switch {
	case kind == domain.PathMissing:
		problem = fmt.Sprintf("%s missing - %s", rel, e.Description)
	case e.MustBeDirectory && kind == domain.PathFile:
		problem = fmt.Sprintf("%s should be a directory but is a file", rel)
	case !e.MustBeDirectory && kind == domain.PathDirectory:
		problem = fmt.Sprintf("%s should be a file but is a directory", rel)
	}

	switch {
	case problem == "":
		return pass(e.ID, "%s exists (%s) - %s", rel, describeSize(snap, rel, kind), e.Description)
	case e.Critical:
		return fail(e.ID, "CRITICAL: %s", problem)
	default:
		return advisory(e.ID, "%s", problem)
	}
}

// resolveEntry returns the concrete path for an entry. Glob entries resolve
// to their first match in scan order.
func resolveEntry(snap *domain.BuildSnapshot, e ManifestEntry) (string, domain.PathKind) {
	if !e.Glob() {
		return e.Path, snap.Kind(e.Path)
	}
	matches := snap.Match(e.Path)
	if len(matches) == 0 {
		return e.Path, domain.PathMissing
	}
	return matches[0], snap.Kind(matches[0])
}

func describeSize(snap *domain.BuildSnapshot, rel string, kind domain.PathKind) string {
	if kind == domain.PathDirectory {
		return "directory"
	}
	a, _ := snap.Artifact(rel)
	return domain.FormatBytes(a.SizeBytes)
}
