// Package messages collects changelog lines from commit messages.
package messages

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultSkipMarker excludes a line from the changelog when present anywhere in it.
const DefaultSkipMarker = "[skip]"

// LineFilter decides which message lines reach the changelog.
type LineFilter struct {
	markers  []string
	patterns []*regexp.Regexp
}

// NewLineFilter creates a filter rejecting lines that contain any marker or
// match any pattern. Patterns are compiled as case-insensitive.
func NewLineFilter(markers, patterns []string) (*LineFilter, error) {
	f := &LineFilter{}
	for _, m := range markers {
		if m == "" {
			continue
		}
		f.markers = append(f.markers, m)
	}

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling skip pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// Keep reports whether line belongs in the changelog. Empty lines never do.
func (f *LineFilter) Keep(line string) bool {
	if line == "" {
		return false
	}
	for _, m := range f.markers {
		if strings.Contains(line, m) {
			return false
		}
	}
	for _, re := range f.patterns {
		if re.MatchString(line) {
			return false
		}
	}
	return true
}
