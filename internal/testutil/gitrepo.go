// Package testutil builds throwaway Git repositories for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Author identity used for every test commit.
const (
	AuthorName  = "Test Author"
	AuthorEmail = "test@example.com"
)

// FileOp is one change applied to the work tree before a commit.
type FileOp struct {
	Path    string
	Content string
	Delete  bool
}

// Write creates or overwrites path with content.
func Write(path, content string) FileOp {
	return FileOp{Path: path, Content: content}
}

// Remove deletes path.
func Remove(path string) FileOp {
	return FileOp{Path: path, Delete: true}
}

// Repo is a temporary repository with a work tree.
type Repo struct {
	t    *testing.T
	Dir  string
	Repo *git.Repository
}

// NewRepo initializes an empty repository in a temporary directory.
func NewRepo(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}
	return &Repo{t: t, Dir: dir, Repo: repo}
}

// Commit applies ops to the work tree and commits them with the given
// author and committer time. It returns the new commit hash.
func (r *Repo) Commit(message string, when time.Time, ops ...FileOp) string {
	r.t.Helper()
	return r.CommitWithParents(message, when, nil, ops...)
}

// CommitWithParents is Commit with explicit parent hashes, first parent
// first. Nil parents means the current HEAD. The branch moves to the new
// commit either way, so two parents make a merge.
func (r *Repo) CommitWithParents(message string, when time.Time, parents []string, ops ...FileOp) string {
	r.t.Helper()

	w, err := r.Repo.Worktree()
	if err != nil {
		r.t.Fatalf("Failed to get worktree: %v", err)
	}

	for _, op := range ops {
		full := filepath.Join(r.Dir, filepath.FromSlash(op.Path))
		if op.Delete {
			if _, err := w.Remove(op.Path); err != nil {
				r.t.Fatalf("Failed to remove %s: %v", op.Path, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			r.t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(full, []byte(op.Content), 0o644); err != nil {
			r.t.Fatalf("Failed to write file: %v", err)
		}
		if _, err := w.Add(op.Path); err != nil {
			r.t.Fatalf("Failed to add file: %v", err)
		}
	}

	sig := &object.Signature{Name: AuthorName, Email: AuthorEmail, When: when}
	opts := &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	}
	for _, p := range parents {
		opts.Parents = append(opts.Parents, plumbing.NewHash(p))
	}
	hash, err := w.Commit(message, opts)
	if err != nil {
		r.t.Fatalf("Failed to commit: %v", err)
	}
	return hash.String()
}
