package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/masmgr/updatechangelog-go/internal/logging"
)

// GraphReader reads the commit graph of a repository through go-git.
type GraphReader struct {
	repo   *git.Repository
	dir    string
	filter *PatchFilter
	log    *logging.Logger
}

// NewGraphReader opens the repository at opts.RepoPath, searching parent
// directories for the .git directory.
func NewGraphReader(opts ReadOptions, log *logging.Logger) (*GraphReader, error) {
	repoPath := opts.RepoPath
	if repoPath == "" {
		repoPath = "."
	}

	log = log.With("[git]")
	log.Debugf("opening repository at %s", repoPath)

	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", repoPath, err)
	}

	return NewGraphReaderFromRepository(repo, opts, log)
}

// NewGraphReaderFromRepository wraps an already opened repository.
func NewGraphReaderFromRepository(repo *git.Repository, opts ReadOptions, log *logging.Logger) (*GraphReader, error) {
	filter, err := NewPatchFilter(opts.Pattern, opts.Exclude)
	if err != nil {
		return nil, err
	}
	return &GraphReader{
		repo:   repo,
		dir:    cleanPatchDir(opts.PatchDir),
		filter: filter,
		log:    log,
	}, nil
}

// ResolveHead returns the commit HEAD points to.
func (r *GraphReader) ResolveHead(_ context.Context) (Revision, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	return Revision(ref.Hash().String()), nil
}

// Resolve turns a revision expression into a full commit hash.
func (r *GraphReader) Resolve(_ context.Context, name string) (Revision, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty revision", ErrUnknownRevision)
	}
	h, err := r.repo.ResolveRevision(plumbing.Revision(name))
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrUnknownRevision, name, err)
	}
	return Revision(h.String()), nil
}

// Commit returns metadata for rev.
func (r *GraphReader) Commit(_ context.Context, rev Revision) (CommitInfo, error) {
	c, err := r.commitObject(rev)
	if err != nil {
		return CommitInfo{}, err
	}
	return CommitInfo{
		SHA:     Revision(c.Hash.String()),
		When:    c.Committer.When,
		Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
		Message: c.Message,
	}, nil
}

// IsAncestor reports whether a is reachable from b. A revision the
// repository does not know is never an ancestor.
func (r *GraphReader) IsAncestor(_ context.Context, a, b Revision) (bool, error) {
	if a == b {
		return true, nil
	}

	ca, err := r.commitObject(a)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) || errors.Is(err, ErrUnknownRevision) {
			r.log.Debugf("IsAncestor: %s not found in repository", a.Short())
			return false, nil
		}
		return false, err
	}

	cb, err := r.commitObject(b)
	if err != nil {
		return false, err
	}

	ok, err := ca.IsAncestor(cb)
	if err != nil {
		return false, fmt.Errorf("walking ancestors of %s: %w", b.Short(), err)
	}
	r.log.Debugf("IsAncestor(%s, %s) = %v", a.Short(), b.Short(), ok)
	return ok, nil
}

// ListPatchFiles returns the patch files directly inside the patch directory.
func (r *GraphReader) ListPatchFiles(_ context.Context, rev Revision) (NameSet, error) {
	c, err := r.commitObject(rev)
	if err != nil {
		return nil, err
	}

	tree, err := r.patchTree(c)
	if err != nil {
		return nil, err
	}

	names := make(NameSet)
	for _, entry := range tree.Entries {
		if !entry.Mode.IsFile() {
			continue
		}
		if r.filter.Match(entry.Name) {
			names.Add(entry.Name)
		}
	}

	r.log.Debugf("ListPatchFiles(%s): %d files", rev.Short(), len(names))
	return names, nil
}

// DiffPatchFiles returns the patch files present in both trees whose
// content differs.
func (r *GraphReader) DiffPatchFiles(ctx context.Context, a, b Revision) (NameSet, error) {
	ca, err := r.commitObject(a)
	if err != nil {
		return nil, err
	}
	cb, err := r.commitObject(b)
	if err != nil {
		return nil, err
	}

	ta, err := r.patchTree(ca)
	if err != nil {
		return nil, err
	}
	tb, err := r.patchTree(cb)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, ta, tb, nil)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..%s: %w", a.Short(), b.Short(), err)
	}

	names := make(NameSet)
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, err
		}
		if action != merkletrie.Modify {
			continue
		}

		name := change.To.Name
		// Only direct children of the patch directory are tracked
		if strings.Contains(name, "/") {
			continue
		}
		if !change.From.TreeEntry.Mode.IsFile() || !change.To.TreeEntry.Mode.IsFile() {
			continue
		}
		if r.filter.Match(name) {
			names.Add(name)
		}
	}

	r.log.Debugf("DiffPatchFiles(%s, %s): %d files", a.Short(), b.Short(), len(names))
	return names, nil
}

// LastTouchTime returns the committer time of the newest commit reachable
// from rev that touched the patch file. The zero time means none did.
func (r *GraphReader) LastTouchTime(_ context.Context, rev Revision, name string) (time.Time, error) {
	c, err := r.commitObject(rev)
	if err != nil {
		return time.Time{}, err
	}

	p := patchPath(r.dir, name)
	iter, err := r.repo.Log(&git.LogOptions{
		From:     c.Hash,
		Order:    git.LogOrderCommitterTime,
		FileName: &p,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("reading log of %s: %w", p, err)
	}
	defer iter.Close()

	touched, err := iter.Next()
	if errors.Is(err, io.EOF) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading log of %s: %w", p, err)
	}
	return touched.Committer.When, nil
}

// MessagesBetween follows first parents from newRev until oldRev,
// returning the messages newest first. oldRev itself is excluded.
func (r *GraphReader) MessagesBetween(ctx context.Context, newRev, oldRev Revision) ([]CommitMessage, error) {
	c, err := r.commitObject(newRev)
	if err != nil {
		return nil, err
	}

	var messages []CommitMessage
	for Revision(c.Hash.String()) != oldRev {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		messages = append(messages, CommitMessage{
			Revision: Revision(c.Hash.String()),
			Text:     c.Message,
		})

		if c.NumParents() == 0 {
			return nil, fmt.Errorf("walking %s back to %s: %w", newRev.Short(), oldRev.Short(), ErrRevisionNotReached)
		}
		parent, err := c.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("reading parent of %s: %w", Revision(c.Hash.String()).Short(), err)
		}
		c = parent
	}

	r.log.Debugf("MessagesBetween(%s, %s): %d commits", newRev.Short(), oldRev.Short(), len(messages))
	return messages, nil
}

func (r *GraphReader) commitObject(rev Revision) (*object.Commit, error) {
	if !plumbing.IsHash(string(rev)) {
		return nil, fmt.Errorf("%w %q", ErrUnknownRevision, string(rev))
	}
	c, err := r.repo.CommitObject(plumbing.NewHash(string(rev)))
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", rev.Short(), err)
	}
	return c, nil
}

// patchTree returns the patch directory of the commit's tree, or an empty
// tree when the directory does not exist.
func (r *GraphReader) patchTree(c *object.Commit) (*object.Tree, error) {
	root, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", c.Hash.String(), err)
	}
	if r.dir == "" {
		return root, nil
	}

	sub, err := root.Tree(r.dir)
	if errors.Is(err, object.ErrDirectoryNotFound) {
		return &object.Tree{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s in %s: %w", r.dir, c.Hash.String(), err)
	}
	return sub, nil
}
