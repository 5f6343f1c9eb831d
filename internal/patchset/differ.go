// Package patchset classifies patch files as added, modified or deleted
// between two revisions.
package patchset

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/masmgr/updatechangelog-go/internal/git"
	"github.com/masmgr/updatechangelog-go/internal/logging"
)

// PatchSet holds the three disjoint change lists. Each list is ordered by
// the time its files were last touched, newest first, then by name.
type PatchSet struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Deleted  []string `json:"deleted"`
}

// IsEmpty reports whether no patch file changed.
func (p PatchSet) IsEmpty() bool {
	return p.Len() == 0
}

// Len returns the total number of changed files.
func (p PatchSet) Len() int {
	return len(p.Added) + len(p.Modified) + len(p.Deleted)
}

// Differ computes PatchSets from a commit graph.
type Differ struct {
	reader git.CommitGraphReader
	log    *logging.Logger
}

// NewDiffer creates a Differ reading from reader.
func NewDiffer(reader git.CommitGraphReader, log *logging.Logger) *Differ {
	return &Differ{reader: reader, log: log.With("[patchset]")}
}

// Diff classifies the patch files that changed between oldRev and newRev.
// A file missing from newRev counts as deleted even if it was also edited,
// and a file missing from oldRev counts as added.
func (d *Differ) Diff(ctx context.Context, oldRev, newRev git.Revision) (PatchSet, error) {
	if oldRev == newRev {
		return PatchSet{Added: []string{}, Modified: []string{}, Deleted: []string{}}, nil
	}

	existing, err := d.reader.ListPatchFiles(ctx, oldRev)
	if err != nil {
		return PatchSet{}, fmt.Errorf("listing patches at %s: %w", oldRev.Short(), err)
	}
	current, err := d.reader.ListPatchFiles(ctx, newRev)
	if err != nil {
		return PatchSet{}, fmt.Errorf("listing patches at %s: %w", newRev.Short(), err)
	}

	deleted := existing.Difference(current)
	added := current.Difference(existing)

	changed, err := d.reader.DiffPatchFiles(ctx, newRev, oldRev)
	if err != nil {
		return PatchSet{}, fmt.Errorf("diffing patches %s..%s: %w", oldRev.Short(), newRev.Short(), err)
	}
	modified := changed.Difference(added.Union(deleted))

	d.log.Debugf("%s..%s: %d added, %d modified, %d deleted",
		oldRev.Short(), newRev.Short(), len(added), len(modified), len(deleted))

	sorter := &touchSorter{ctx: ctx, reader: d.reader, rev: newRev, cache: map[string]time.Time{}}
	ps := PatchSet{}
	if ps.Added, err = sorter.sort(added); err != nil {
		return PatchSet{}, err
	}
	if ps.Modified, err = sorter.sort(modified); err != nil {
		return PatchSet{}, err
	}
	if ps.Deleted, err = sorter.sort(deleted); err != nil {
		return PatchSet{}, err
	}
	return ps, nil
}

// touchSorter orders names by last-touch time, looking each name up once.
type touchSorter struct {
	ctx    context.Context
	reader git.CommitGraphReader
	rev    git.Revision
	cache  map[string]time.Time
}

func (s *touchSorter) sort(names git.NameSet) ([]string, error) {
	out := names.Sorted()
	for _, name := range out {
		if _, ok := s.cache[name]; ok {
			continue
		}
		when, err := s.reader.LastTouchTime(s.ctx, s.rev, name)
		if err != nil {
			return nil, fmt.Errorf("finding last change of %s: %w", name, err)
		}
		s.cache[name] = when
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := s.cache[out[i]], s.cache[out[j]]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i] < out[j]
	})
	return out, nil
}
