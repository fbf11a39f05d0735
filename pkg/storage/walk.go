package storage

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// PathExpansionError reports a root that could not be walked.
type PathExpansionError struct {
	Root string
	Err  error
}

func (e *PathExpansionError) Error() string {
	return fmt.Sprintf("expand %s: %v", e.Root, e.Err)
}

func (e *PathExpansionError) Unwrap() error {
	return e.Err
}

// ListFiles walks root and returns every regular file at most maxDepth
// levels below it. A root that is itself a regular file is returned as-is
// (depth 0). Symlinks are not followed. Any walk error aborts the listing.
func (s *Storage) ListFiles(root string, maxDepth int) ([]string, error) {
	var files []string

	root = filepath.Clean(root)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		depth := depthBelow(root, path)
		if d.IsDir() {
			if depth >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if depth > maxDepth {
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &PathExpansionError{Root: root, Err: err}
	}

	return files, nil
}

// ListAll expands every root and drops files listed more than once, so
// overlapping roots do not double count a file.
func (s *Storage) ListAll(roots []string, maxDepth int) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	for _, root := range roots {
		files, err := s.ListFiles(root, maxDepth)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			key := f
			if abs, err := filepath.Abs(f); err == nil {
				key = abs
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, f)
		}
	}

	return out, nil
}

func depthBelow(root, path string) int {
	if path == root {
		return 0
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
