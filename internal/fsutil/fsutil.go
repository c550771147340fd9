// Package fsutil walks a workspace and selects the files a scan should
// visit.
package fsutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchesIgnore returns true if the path matches any ignore glob.
func MatchesIgnore(path string, ignoreGlobs []string) bool {
	normalized := filepath.ToSlash(path)
	for _, g := range ignoreGlobs {
		if g == "" {
			continue
		}
		ok, err := doublestar.Match(g, normalized)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// scannable source extensions. Detection runs over raw text, so this list
// only limits noise, not correctness.
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".mjs": true,
	".cjs": true,
	".ts":  true,
	".tsx": true,
}

// IsSourceFile reports whether a path looks like a scannable source file.
func IsSourceFile(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// ListFiles walks root and returns the relative paths of scannable files,
// skipping anything matched by the ignore globs. Inaccessible entries are
// skipped, not fatal.
func ListFiles(root string, ignoreGlobs []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if MatchesIgnore(rel, ignoreGlobs) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsSourceFile(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
