package domain

import (
	"path"
	"strings"
)

// PathKind tells whether a relative path in the build tree is absent, a
// regular file or a directory.
type PathKind string

const (
	PathMissing   PathKind = "missing"
	PathFile      PathKind = "file"
	PathDirectory PathKind = "directory"
)

// BuildSnapshot is the read-only view of a build tree produced by one scan.
// All paths are slash-separated and relative to Root. Safe for concurrent reads.
type BuildSnapshot struct {
	Root        string
	Artifacts   []FileArtifact
	Directories []string
	Contents    map[string]string

	files map[string]int
	dirs  map[string]struct{}
}

// NewBuildSnapshot indexes the scanned artifacts and directories. Contents
// holds the text of inspected files keyed by relative path.
func NewBuildSnapshot(root string, artifacts []FileArtifact, dirs []string, contents map[string]string) *BuildSnapshot {
	s := &BuildSnapshot{
		Root:        root,
		Artifacts:   artifacts,
		Directories: dirs,
		Contents:    contents,
		files:       make(map[string]int, len(artifacts)),
		dirs:        make(map[string]struct{}, len(dirs)),
	}
	if s.Contents == nil {
		s.Contents = map[string]string{}
	}
	for i, a := range artifacts {
		s.files[a.RelativePath] = i
	}
	for _, d := range dirs {
		s.dirs[d] = struct{}{}
	}
	return s
}

func cleanRel(rel string) string {
	rel = path.Clean(strings.TrimPrefix(rel, "/"))
	if rel == "." {
		return ""
	}
	return rel
}

// Kind reports what the relative path refers to.
func (s *BuildSnapshot) Kind(rel string) PathKind {
	rel = cleanRel(rel)
	if rel == "" {
		return PathDirectory
	}
	if _, ok := s.files[rel]; ok {
		return PathFile
	}
	if _, ok := s.dirs[rel]; ok {
		return PathDirectory
	}
	return PathMissing
}

// Artifact returns the file artifact at rel.
func (s *BuildSnapshot) Artifact(rel string) (FileArtifact, bool) {
	i, ok := s.files[cleanRel(rel)]
	if !ok {
		return FileArtifact{}, false
	}
	return s.Artifacts[i], true
}

// Content returns the inspected text of rel. Files that were not inspected
// report false.
func (s *BuildSnapshot) Content(rel string) (string, bool) {
	c, ok := s.Contents[cleanRel(rel)]
	return c, ok
}

// Match returns the paths (files and directories) matching a path.Match
// pattern, files first, in scan order.
func (s *BuildSnapshot) Match(pattern string) []string {
	var out []string
	for _, a := range s.Artifacts {
		if ok, _ := path.Match(pattern, a.RelativePath); ok {
			out = append(out, a.RelativePath)
		}
	}
	for _, d := range s.Directories {
		if ok, _ := path.Match(pattern, d); ok {
			out = append(out, d)
		}
	}
	return out
}

// ArtifactsUnder returns the files below dir, recursively.
func (s *BuildSnapshot) ArtifactsUnder(dir string) []FileArtifact {
	dir = cleanRel(dir)
	if dir == "" {
		return s.Artifacts
	}
	prefix := dir + "/"
	var out []FileArtifact
	for _, a := range s.Artifacts {
		if strings.HasPrefix(a.RelativePath, prefix) {
			out = append(out, a)
		}
	}
	return out
}
