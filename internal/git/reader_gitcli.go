package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/masmgr/updatechangelog-go/internal/logging"
)

// CLIReader reads the commit graph by running the git executable.
// Every invocation passes an argument list; nothing goes through a shell.
type CLIReader struct {
	repoPath string
	gitBin   string
	dir      string
	filter   *PatchFilter
	log      *logging.Logger
}

// NewCLIReader checks that repoPath is inside a work tree and builds a reader.
func NewCLIReader(ctx context.Context, opts ReadOptions, log *logging.Logger) (*CLIReader, error) {
	filter, err := NewPatchFilter(opts.Pattern, opts.Exclude)
	if err != nil {
		return nil, err
	}

	repoPath := opts.RepoPath
	if repoPath == "" {
		repoPath = "."
	}

	r := &CLIReader{
		repoPath: repoPath,
		gitBin:   "git",
		dir:      cleanPatchDir(opts.PatchDir),
		filter:   filter,
		log:      log.With("[git-cli]"),
	}

	if _, err := r.run(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", repoPath, err)
	}
	return r, nil
}

// ResolveHead returns the commit HEAD points to.
func (r *CLIReader) ResolveHead(ctx context.Context) (Revision, error) {
	out, err := r.run(ctx, "rev-parse", "--verify", "HEAD^{commit}")
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	return Revision(strings.TrimSpace(string(out))), nil
}

// Resolve turns a revision expression into a full commit hash.
func (r *CLIReader) Resolve(ctx context.Context, name string) (Revision, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "-") {
		return "", fmt.Errorf("%w %q", ErrUnknownRevision, name)
	}
	out, err := r.run(ctx, "rev-parse", "--verify", "--quiet", name+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrUnknownRevision, name, err)
	}
	return Revision(strings.TrimSpace(string(out))), nil
}

// Commit returns metadata for rev.
func (r *CLIReader) Commit(ctx context.Context, rev Revision) (CommitInfo, error) {
	out, err := r.run(ctx, "show", "-s", "--no-color", "--format=%H%x00%cI%x00%an%x00%ae%x00%B", string(rev))
	if err != nil {
		return CommitInfo{}, fmt.Errorf("reading commit %s: %w", rev.Short(), err)
	}
	return parseCommitInfo(out)
}

// IsAncestor reports whether a is reachable from b. A revision the
// repository does not know is never an ancestor.
func (r *CLIReader) IsAncestor(ctx context.Context, a, b Revision) (bool, error) {
	if a == b {
		return true, nil
	}

	if _, err := r.run(ctx, "cat-file", "-e", string(a)+"^{commit}"); err != nil {
		r.log.Debugf("IsAncestor: %s not found in repository", a.Short())
		return false, nil
	}

	_, err := r.run(ctx, "merge-base", "--is-ancestor", string(a), string(b))
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, err
}

// ListPatchFiles returns the patch files directly inside the patch directory.
func (r *CLIReader) ListPatchFiles(ctx context.Context, rev Revision) (NameSet, error) {
	args := []string{"ls-tree", "-z", string(rev)}
	if r.dir != "" {
		args = append(args, "--", r.dir+"/")
	}

	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s at %s: %w", r.dir, rev.Short(), err)
	}

	entries, err := parseLsTree(out)
	if err != nil {
		return nil, err
	}

	names := make(NameSet)
	for _, e := range entries {
		if !e.mode.IsFile() {
			continue
		}
		name, ok := r.childName(e.path)
		if !ok {
			continue
		}
		if r.filter.Match(name) {
			names.Add(name)
		}
	}
	return names, nil
}

// DiffPatchFiles returns the patch files present in both trees whose
// content differs.
func (r *CLIReader) DiffPatchFiles(ctx context.Context, a, b Revision) (NameSet, error) {
	args := []string{"diff-tree", "-r", "-z", "--raw", "--no-renames", string(a), string(b)}
	if r.dir != "" {
		args = append(args, "--", r.dir+"/")
	}

	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..%s: %w", a.Short(), b.Short(), err)
	}

	entries, err := parseGitRawEntries(out)
	if err != nil {
		return nil, err
	}

	names := make(NameSet)
	for _, e := range entries {
		if !strings.HasPrefix(e.status, "M") {
			continue
		}
		if !e.srcMode.IsFile() || !e.dstMode.IsFile() {
			continue
		}
		name, ok := r.childName(e.path)
		if !ok {
			continue
		}
		if r.filter.Match(name) {
			names.Add(name)
		}
	}
	return names, nil
}

// LastTouchTime returns the committer time of the newest commit reachable
// from rev that touched the patch file. The zero time means none did.
func (r *CLIReader) LastTouchTime(ctx context.Context, rev Revision, name string) (time.Time, error) {
	p := patchPath(r.dir, name)
	out, err := r.run(ctx, "log", "-1", "--no-color", "--format=%cI", string(rev), "--", p)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading log of %s: %w", p, err)
	}

	s := strings.TrimSpace(string(out))
	if s == "" {
		return time.Time{}, nil
	}
	when, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse committer date: %w", err)
	}
	return when, nil
}

// MessagesBetween follows first parents from newRev until oldRev,
// returning the messages newest first. oldRev itself is excluded.
func (r *CLIReader) MessagesBetween(ctx context.Context, newRev, oldRev Revision) ([]CommitMessage, error) {
	if newRev == oldRev {
		return nil, nil
	}

	out, err := r.run(ctx, "log", "--first-parent", "--no-color", "--format=%x1e%H%x00%B",
		string(oldRev)+".."+string(newRev), "--")
	if err != nil {
		return nil, fmt.Errorf("reading log of %s: %w", newRev.Short(), err)
	}

	msgs, err := parseMessageRecords(out)
	if err != nil {
		return nil, err
	}

	// The range stops at anything reachable from oldRev, so the walk only
	// met oldRev if it is the first parent of the oldest commit returned.
	notReached := fmt.Errorf("walking %s back to %s: %w", newRev.Short(), oldRev.Short(), ErrRevisionNotReached)
	if len(msgs) == 0 {
		return nil, notReached
	}
	oldest := msgs[len(msgs)-1].Revision
	parent, err := r.run(ctx, "rev-parse", "--verify", "--quiet", string(oldest)+"^1")
	if err != nil || Revision(strings.TrimSpace(string(parent))) != oldRev {
		return nil, notReached
	}
	return msgs, nil
}

// childName strips the patch directory from a repository path and reports
// whether the result is a direct child.
func (r *CLIReader) childName(p string) (string, bool) {
	if r.dir != "" {
		if !strings.HasPrefix(p, r.dir+"/") {
			return "", false
		}
		p = strings.TrimPrefix(p, r.dir+"/")
	}
	if p == "" || strings.Contains(p, "/") {
		return "", false
	}
	return p, true
}

func (r *CLIReader) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"-C", r.repoPath}, args...)
	cmd := exec.CommandContext(ctx, r.gitBin, full...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
