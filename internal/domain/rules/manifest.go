package rules

import (
	"strings"

	"github.com/abdidvp/shipgate/internal/domain"
)

// ManifestEntry is one path the build tree is expected to contain.
type ManifestEntry struct {
	ID              string
	Path            string
	Critical        bool
	MustBeDirectory bool
	Description     string
}

// Glob reports whether Path is a pattern rather than a literal path.
func (e ManifestEntry) Glob() bool {
	return strings.ContainsAny(e.Path, "*?[")
}

// RequiredManifest builds the expected-paths table for an entry layout.
func RequiredManifest(entry domain.EntryLayout) []ManifestEntry {
	entries := []ManifestEntry{
		{ID: "files.html_entry", Path: entry.HTML, Description: "HTML entry point"},
		{ID: "files.main_script", Path: entry.MainScript, Description: "main application bundle"},
		{ID: "files.worker_script", Path: entry.WorkerScript, Description: "service worker for offline support"},
		{ID: "files.manifest", Path: entry.Manifest, Description: "web app manifest"},
		{ID: "files.assets_dir", Path: entry.AssetsDir, MustBeDirectory: true, Description: "application assets"},
		{ID: "files.favicon", Path: "favicon.*", Description: "site icon"},
		{ID: "files.sitemap", Path: "sitemap.xml", Description: "sitemap for search engines"},
		{ID: "files.robots", Path: "robots.txt", Description: "crawler directives"},
	}
	for i := range entries {
		entries[i].Critical = IsCritical(entries[i].ID)
	}
	return entries
}

// InspectPaths lists the files whose text the rule groups read.
func InspectPaths(entry domain.EntryLayout) []string {
	return []string{entry.HTML, entry.MainScript, entry.WorkerScript, "robots.txt"}
}
