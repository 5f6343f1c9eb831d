package git

import (
	"context"
	"time"
)

// CommitGraphReader is read-only access to a commit graph and the patch
// directory of each commit's tree.
// This abstraction allows for easier testing and alternative backends.
type CommitGraphReader interface {
	// ResolveHead returns the current tip.
	ResolveHead(ctx context.Context) (Revision, error)
	// Resolve turns a revision expression (hash, ref, HEAD~1) into a full hash.
	Resolve(ctx context.Context, name string) (Revision, error)
	// Commit returns metadata for rev.
	Commit(ctx context.Context, rev Revision) (CommitInfo, error)
	// IsAncestor reports whether a is reachable from b, inclusive.
	IsAncestor(ctx context.Context, a, b Revision) (bool, error)
	// ListPatchFiles returns the patch file names in rev's tree.
	ListPatchFiles(ctx context.Context, rev Revision) (NameSet, error)
	// DiffPatchFiles returns the patch files whose content differs between a and b.
	DiffPatchFiles(ctx context.Context, a, b Revision) (NameSet, error)
	// LastTouchTime returns the commit time of the newest commit reachable
	// from rev that touched the named patch file.
	LastTouchTime(ctx context.Context, rev Revision, name string) (time.Time, error)
	// MessagesBetween walks first parents from newRev down to, but excluding, oldRev.
	MessagesBetween(ctx context.Context, newRev, oldRev Revision) ([]CommitMessage, error)
}

// Compile-time interface conformance checks.
var (
	_ CommitGraphReader = (*GraphReader)(nil)
	_ CommitGraphReader = (*CLIReader)(nil)
	_ CommitGraphReader = (*MockGraph)(nil)
)
