// Package changelog assembles and renders changelog entries.
package changelog

import (
	"github.com/masmgr/updatechangelog-go/internal/patchset"
)

// Template slot names.
const (
	SlotMessages = "messages"
	SlotAdded    = "added"
	SlotModified = "modified"
	SlotDeleted  = "deleted"
)

// Record is one changelog entry before rendering.
type Record struct {
	Messages []string `json:"messages" yaml:"messages"`
	Added    []string `json:"added" yaml:"added"`
	Modified []string `json:"modified" yaml:"modified"`
	Deleted  []string `json:"deleted" yaml:"deleted"`
}

// Build creates a Record. The inputs are copied so later changes to them
// do not affect the record.
func Build(messages []string, ps patchset.PatchSet) Record {
	return Record{
		Messages: clone(messages),
		Added:    clone(ps.Added),
		Modified: clone(ps.Modified),
		Deleted:  clone(ps.Deleted),
	}
}

// IsEmpty reports whether the record has no message lines. Patch changes
// alone do not make an entry worth publishing.
func (r Record) IsEmpty() bool {
	return len(r.Messages) == 0
}

// PatchSet returns the patch lists of the record.
func (r Record) PatchSet() patchset.PatchSet {
	return patchset.PatchSet{Added: clone(r.Added), Modified: clone(r.Modified), Deleted: clone(r.Deleted)}
}

// Slots returns the template data for the record.
func (r Record) Slots() map[string][]string {
	return map[string][]string{
		SlotMessages: clone(r.Messages),
		SlotAdded:    clone(r.Added),
		SlotModified: clone(r.Modified),
		SlotDeleted:  clone(r.Deleted),
	}
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
