package scanner

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultExcludedDirs is the system-wide deny list, matched against
// directory base names case-insensitively.
var defaultExcludedDirs = map[string]struct{}{
	".git":                      {},
	".svn":                      {},
	".hg":                       {},
	".idea":                     {},
	".vscode":                   {},
	"node_modules":              {},
	"target":                    {},
	"build":                     {},
	"dist":                      {},
	"obj":                       {},
	"__pycache__":               {},
	"appdata":                   {},
	"local settings":            {},
	"application data":          {},
	"program files":             {},
	"program files (x86)":       {},
	"windows":                   {},
	"$recycle.bin":              {},
	"system volume information": {},
	"temp":                      {},
	"tmp":                       {},
}

// ExclusionSet merges the built-in deny list with user glob patterns.
// Patterns are matched against the path relative to the scan root.
type ExclusionSet struct {
	root     string
	patterns []string
}

// NewExclusionSet compiles user patterns for a scan rooted at root.
// Invalid patterns are dropped.
func NewExclusionSet(root string, patterns []string) *ExclusionSet {
	valid := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || !doublestar.ValidatePattern(p) {
			continue
		}
		valid = append(valid, p)
	}
	return &ExclusionSet{root: root, patterns: valid}
}

// ExcludeDir reports whether the directory at path should be pruned
// from the walk.
func (e *ExclusionSet) ExcludeDir(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if _, denied := defaultExcludedDirs[base]; denied {
		return true
	}
	return e.matchesPattern(path)
}

// ExcludeFile reports whether the file at path should be skipped.
func (e *ExclusionSet) ExcludeFile(path string) bool {
	return e.matchesPattern(path)
}

func (e *ExclusionSet) matchesPattern(path string) bool {
	if len(e.patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(e.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, p := range e.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
