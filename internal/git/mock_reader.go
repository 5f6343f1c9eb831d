package git

import (
	"context"
	"fmt"
	"time"
)

// MockCommit is one commit of a MockGraph. Files maps patch file names to
// their content in this commit's patch directory.
type MockCommit struct {
	Parents []Revision
	When    time.Time
	Author  AuthorInfo
	Message string
	Files   map[string]string
}

// MockGraph is an in-memory CommitGraphReader for tests.
// It allows tests to describe a history without needing a real Git repository.
type MockGraph struct {
	Head    Revision
	Commits map[Revision]*MockCommit
	Error   error

	// DiffOverride, when set, replaces the computed DiffPatchFiles result.
	DiffOverride NameSet
}

// NewMockGraph creates an empty graph.
func NewMockGraph() *MockGraph {
	return &MockGraph{Commits: make(map[Revision]*MockCommit)}
}

// Add records a commit and moves Head to it.
func (m *MockGraph) Add(rev Revision, c *MockCommit) *MockGraph {
	if c.Files == nil {
		c.Files = map[string]string{}
	}
	m.Commits[rev] = c
	m.Head = rev
	return m
}

func (m *MockGraph) ResolveHead(_ context.Context) (Revision, error) {
	if m.Error != nil {
		return "", m.Error
	}
	if m.Head == "" {
		return "", fmt.Errorf("getting HEAD reference: empty graph")
	}
	return m.Head, nil
}

func (m *MockGraph) Resolve(_ context.Context, name string) (Revision, error) {
	if m.Error != nil {
		return "", m.Error
	}
	if name == "HEAD" {
		return m.Head, nil
	}
	if _, ok := m.Commits[Revision(name)]; ok {
		return Revision(name), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownRevision, name)
}

func (m *MockGraph) Commit(_ context.Context, rev Revision) (CommitInfo, error) {
	c, err := m.commit(rev)
	if err != nil {
		return CommitInfo{}, err
	}
	return CommitInfo{SHA: rev, When: c.When, Author: c.Author, Message: c.Message}, nil
}

func (m *MockGraph) IsAncestor(_ context.Context, a, b Revision) (bool, error) {
	if m.Error != nil {
		return false, m.Error
	}
	if a == b {
		return true, nil
	}
	if _, ok := m.Commits[a]; !ok {
		return false, nil
	}

	seen := map[Revision]bool{}
	queue := []Revision{b}
	for len(queue) > 0 {
		rev := queue[0]
		queue = queue[1:]
		if rev == a {
			return true, nil
		}
		if seen[rev] {
			continue
		}
		seen[rev] = true
		if c, ok := m.Commits[rev]; ok {
			queue = append(queue, c.Parents...)
		}
	}
	return false, nil
}

func (m *MockGraph) ListPatchFiles(_ context.Context, rev Revision) (NameSet, error) {
	c, err := m.commit(rev)
	if err != nil {
		return nil, err
	}
	names := make(NameSet, len(c.Files))
	for name := range c.Files {
		names.Add(name)
	}
	return names, nil
}

func (m *MockGraph) DiffPatchFiles(_ context.Context, a, b Revision) (NameSet, error) {
	ca, err := m.commit(a)
	if err != nil {
		return nil, err
	}
	cb, err := m.commit(b)
	if err != nil {
		return nil, err
	}
	if m.DiffOverride != nil {
		return m.DiffOverride, nil
	}

	names := make(NameSet)
	for name, content := range ca.Files {
		if other, ok := cb.Files[name]; ok && other != content {
			names.Add(name)
		}
	}
	return names, nil
}

// LastTouchTime walks every commit reachable from rev and returns the
// newest one whose content for name differs from any parent's.
func (m *MockGraph) LastTouchTime(_ context.Context, rev Revision, name string) (time.Time, error) {
	if _, err := m.commit(rev); err != nil {
		return time.Time{}, err
	}

	var newest time.Time
	seen := map[Revision]bool{}
	queue := []Revision{rev}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true

		c, ok := m.Commits[cur]
		if !ok {
			continue
		}
		if m.touches(c, name) && c.When.After(newest) {
			newest = c.When
		}
		queue = append(queue, c.Parents...)
	}
	return newest, nil
}

func (m *MockGraph) MessagesBetween(_ context.Context, newRev, oldRev Revision) ([]CommitMessage, error) {
	var messages []CommitMessage
	cur := newRev
	for cur != oldRev {
		c, err := m.commit(cur)
		if err != nil {
			return nil, err
		}
		messages = append(messages, CommitMessage{Revision: cur, Text: c.Message})
		if len(c.Parents) == 0 {
			return nil, fmt.Errorf("walking %s back to %s: %w", newRev.Short(), oldRev.Short(), ErrRevisionNotReached)
		}
		cur = c.Parents[0]
	}
	return messages, nil
}

func (m *MockGraph) touches(c *MockCommit, name string) bool {
	content, present := c.Files[name]
	if len(c.Parents) == 0 {
		return present
	}
	for _, p := range c.Parents {
		parent, ok := m.Commits[p]
		if !ok {
			continue
		}
		prev, was := parent.Files[name]
		if was != present || prev != content {
			return true
		}
	}
	return false
}

func (m *MockGraph) commit(rev Revision) (*MockCommit, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	c, ok := m.Commits[rev]
	if !ok {
		return nil, fmt.Errorf("reading commit %s: %w", rev.Short(), ErrUnknownRevision)
	}
	return c, nil
}
