package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdidvp/shipgate/internal/domain"
)

var skipDirs = map[string]bool{
	".git": true,
}

const maxReadSize = 16 * 1024 * 1024 // 16MB cap for inspected files.

// FileScanner implements domain.ArtifactScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan walks root in lexical order and records every regular file and
// directory below it.
func (s *FileScanner) Scan(ctx context.Context, root string, opts domain.ScanOptions) (*domain.BuildSnapshot, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, &domain.ScanError{Root: root, Err: err}
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, &domain.ScanError{Root: absPath, Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.ScanError{Root: absPath, Err: errors.New("not a directory")}
	}

	exclude := toSet(opts.Exclude)
	inspect := toSet(opts.Inspect)

	var artifacts []domain.FileArtifact
	var dirs []string
	contents := map[string]string{}

	err = filepath.WalkDir(absPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == absPath {
			return nil
		}

		rel, err := filepath.Rel(absPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skipDirs[d.Name()] || exclude[rel] {
				return filepath.SkipDir
			}
			dirs = append(dirs, rel)
			return nil
		}
		if exclude[rel] {
			return nil
		}

		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		artifacts = append(artifacts, domain.NewFileArtifact(rel, fi.Size()))

		if inspect[rel] {
			data, err := readCapped(path)
			if err != nil {
				return err
			}
			contents[rel] = string(data)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &domain.ScanError{Root: absPath, Err: fmt.Errorf("walking: %w", err)}
	}

	return domain.NewBuildSnapshot(absPath, artifacts, dirs, contents), nil
}

func readCapped(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxReadSize))
}

func toSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		p = strings.TrimSuffix(filepath.ToSlash(filepath.Clean(p)), "/")
		if p != "" && p != "." {
			set[p] = true
		}
	}
	return set
}
