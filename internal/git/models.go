package git

import (
	"sort"
	"strings"
	"time"
)

// Revision is a full commit hash. Revisions are only ordered through
// ancestry, never lexically.
type Revision string

// String returns the full hash.
func (r Revision) String() string {
	return string(r)
}

// Short returns the abbreviated hash used in log lines.
func (r Revision) Short() string {
	if len(r) > 12 {
		return string(r[:12])
	}
	return string(r)
}

// IsZero reports whether the revision is empty.
func (r Revision) IsZero() bool {
	return strings.TrimSpace(string(r)) == ""
}

// CommitInfo represents minimal information about a Git commit.
type CommitInfo struct {
	SHA     Revision
	When    time.Time
	Author  AuthorInfo
	Message string
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// CommitMessage is one commit's full message as returned by a range walk.
type CommitMessage struct {
	Revision Revision
	Text     string
}

// Lines splits the message into lines, keeping empty ones.
func (m CommitMessage) Lines() []string {
	return strings.Split(m.Text, "\n")
}

// NameSet is an unordered set of patch file names.
type NameSet map[string]struct{}

// NewNameSet creates a set holding names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts a name.
func (s NameSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Difference returns the names in s that are not in other.
func (s NameSet) Difference(other NameSet) NameSet {
	out := make(NameSet)
	for n := range s {
		if !other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Union returns the names in either set.
func (s NameSet) Union(other NameSet) NameSet {
	out := make(NameSet, len(s)+len(other))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// Sorted returns the names in ascending order.
func (s NameSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Backend selects the commit graph implementation.
type Backend string

const (
	BackendGoGit  Backend = "go-git"
	BackendGitCLI Backend = "git-cli"
)

// ParseBackend converts a config or flag value to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "go-git", "gogit":
		return BackendGoGit, nil
	case "git-cli", "git", "cli":
		return BackendGitCLI, nil
	default:
		return "", &UnknownBackendError{Value: s}
	}
}

// ReadOptions configures a commit graph reader.
type ReadOptions struct {
	RepoPath string
	PatchDir string   // Directory holding patch files, relative to the repository root
	Pattern  string   // Glob a patch file name must match
	Exclude  []string // Glob patterns to exclude
}
