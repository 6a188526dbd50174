// Package testutil writes build-tree fixtures for tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// IndexHTML is an entry page that satisfies every integrity and security check.
const IndexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta http-equiv="Content-Security-Policy" content="default-src 'self' https://fonts.gstatic.com">
<title>Shop</title>
<link rel="manifest" href="manifest.json">
<link rel="icon" type="image/png" href="favicon.png">
</head>
<body>
<script src="main.dart.js" type="application/javascript"></script>
</body>
</html>
`

// WorkerScript is a service worker with caching logic.
const WorkerScript = `'use strict';const CACHE_NAME='flutter-app-cache';self.addEventListener('install',(e)=>{e.waitUntil(caches.open(CACHE_NAME));});`

// Build describes a flutter build tree fixture. The zero value is a complete,
// passing tree with a small minified main script.
type Build struct {
	MainScriptBytes int
	OmitWorker      bool
	OmitSEO         bool
	OmitDisclosure  bool
	IndexHTML       string
	// Images maps paths below assets/ to their sizes.
	Images map[string]int
	// Extra maps arbitrary relative paths to file contents.
	Extra map[string]string
}

// WriteFlutterBuild materializes b under root and returns root.
func WriteFlutterBuild(t testing.TB, root string, b Build) string {
	t.Helper()

	html := b.IndexHTML
	if html == "" {
		html = IndexHTML
	}
	mainBytes := b.MainScriptBytes
	if mainBytes == 0 {
		mainBytes = 4096
	}

	WriteFile(t, root, "index.html", []byte(html))
	WriteFile(t, root, "main.dart.js", bytes.Repeat([]byte("a"), mainBytes))
	WriteFile(t, root, "manifest.json", []byte(`{"name":"Shop","short_name":"Shop","start_url":".","display":"standalone"}`))
	WriteFile(t, root, "assets/AssetManifest.json", []byte(`{}`))
	if !b.OmitWorker {
		WriteFile(t, root, "flutter_service_worker.js", []byte(WorkerScript))
	}
	if !b.OmitSEO {
		WriteFile(t, root, "favicon.png", bytes.Repeat([]byte{0x89}, 512))
		WriteFile(t, root, "sitemap.xml", []byte(`<?xml version="1.0" encoding="UTF-8"?><urlset></urlset>`))
		WriteFile(t, root, "robots.txt", []byte("User-agent: *\nDisallow: /admin/\n"))
	}
	if !b.OmitDisclosure {
		WriteFile(t, root, ".well-known/security.txt", []byte("Contact: mailto:security@example.com\n"))
	}
	for rel, size := range b.Images {
		WriteFile(t, root, filepath.Join("assets", rel), bytes.Repeat([]byte{0xff}, size))
	}
	for rel, content := range b.Extra {
		WriteFile(t, root, rel, []byte(content))
	}
	return root
}

// WriteFile writes data to root/rel, creating parent directories.
func WriteFile(t testing.TB, root, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", p, err)
	}
}
