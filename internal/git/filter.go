package git

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatchPattern matches the patch files tracked by default.
const DefaultPatchPattern = "*.patch"

// PatchFilter decides which entries of the patch directory are patch files.
type PatchFilter struct {
	pattern string
	exclude []string
}

// NewPatchFilter validates the glob patterns and builds a filter.
// An empty pattern falls back to DefaultPatchPattern.
func NewPatchFilter(pattern string, exclude []string) (*PatchFilter, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = DefaultPatchPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid patch pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	cleaned := make([]string, 0, len(exclude))
	for _, p := range exclude {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, doublestar.ErrBadPattern)
		}
		cleaned = append(cleaned, p)
	}

	return &PatchFilter{pattern: pattern, exclude: cleaned}, nil
}

// Match reports whether name (a basename) is a tracked patch file.
func (f *PatchFilter) Match(name string) bool {
	// Normalize path separators
	name = strings.ReplaceAll(name, "\\", "/")

	// Check exclude patterns first
	for _, pattern := range f.exclude {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return false
		}
	}

	matched, _ := doublestar.Match(f.pattern, name)
	return matched
}

// cleanPatchDir normalises the configured directory; the repository root is "".
func cleanPatchDir(dir string) string {
	dir = strings.ReplaceAll(strings.TrimSpace(dir), "\\", "/")
	dir = path.Clean("/" + dir)
	return strings.TrimPrefix(dir, "/")
}

// patchPath returns the repository-relative path of a patch file.
func patchPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
