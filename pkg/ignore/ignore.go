// Package ignore filters batch request files through gitignore-style rules.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileName is the rsaforge-specific ignore file, read from the matcher root
// and from any extra locations passed to NewMatcher.
const FileName = ".rsaforgeignore"

// Matcher reports whether paths under a root are excluded.
type Matcher struct {
	root    string
	matcher gitignore.Matcher
}

// NewMatcher creates a matcher with layered ignore files:
// 1. .gitignore files below root (foundation)
// 2. root/.rsaforgeignore (project overrides)
// 3. each of extra, typically $RSAFORGE_HOME/.rsaforgeignore (user overrides)
//
// Missing ignore files are skipped.
func NewMatcher(root string, extra ...string) (*Matcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve ignore root %s: %w", root, err)
	}

	patterns := []gitignore.Pattern{gitignore.ParsePattern(".git/**", nil)}

	if gitPatterns, err := gitignore.ReadPatterns(osfs.New(abs), nil); err == nil {
		patterns = append(patterns, gitPatterns...)
	}

	files := append([]string{filepath.Join(abs, FileName)}, extra...)
	for _, f := range files {
		lines, err := readIgnoreFile(f)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, l := range lines {
			patterns = append(patterns, gitignore.ParsePattern(l, nil))
		}
	}

	return &Matcher{root: abs, matcher: gitignore.NewMatcher(patterns)}, nil
}

func readIgnoreFile(path string) ([]string, error) {
	cleaned := filepath.Clean(path)
	if filepath.Base(cleaned) != FileName {
		return nil, fmt.Errorf("disallowed ignore file path: %s", cleaned)
	}
	content, err := os.ReadFile(cleaned) // #nosec G304 -- basename allowlisted
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// IsIgnored reports whether the file at path is excluded. Paths outside the
// root are never ignored.
func (m *Matcher) IsIgnored(path string) bool {
	parts := m.split(path)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, false)
}

// split turns path into root-relative components for the go-git matcher.
func (m *Matcher) split(path string) []string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	rel, err := filepath.Rel(m.root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}

	var out []string
	for _, p := range strings.Split(filepath.ToSlash(rel), "/") {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	return out
}

// Filter returns the paths that are not ignored, in order, and how many were
// dropped.
func (m *Matcher) Filter(paths []string) ([]string, int) {
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if !m.IsIgnored(p) {
			kept = append(kept, p)
		}
	}
	return kept, len(paths) - len(kept)
}
