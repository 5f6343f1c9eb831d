package git

import (
	"context"
	"errors"
	"fmt"
)

// ErrRevisionNotReached is returned when a first-parent walk hits a root
// commit without meeting the requested stop revision.
var ErrRevisionNotReached = errors.New("revision not reached on first-parent chain")

// ErrUnknownRevision is returned when a revision expression cannot be resolved.
var ErrUnknownRevision = errors.New("unknown revision")

// IntegrityError reports that the recorded revision is not an ancestor of
// HEAD, which usually means history was rewritten.
type IntegrityError struct {
	Last Revision
	Head Revision
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s is not an ancestor of %s; maybe force-push was used", e.Last, e.Head)
}

// UnknownBackendError reports an unsupported backend name.
type UnknownBackendError struct {
	Value string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown repository backend %q (expected go-git or git-cli)", e.Value)
}

// ValidateAncestry returns an *IntegrityError when last is not reachable
// from head.
func ValidateAncestry(ctx context.Context, reader CommitGraphReader, last, head Revision) error {
	ok, err := reader.IsAncestor(ctx, last, head)
	if err != nil {
		return fmt.Errorf("check ancestry of %s: %w", last.Short(), err)
	}
	if !ok {
		return &IntegrityError{Last: last, Head: head}
	}
	return nil
}
