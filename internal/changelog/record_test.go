package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masmgr/updatechangelog-go/internal/patchset"
)

func TestBuild_CopiesInputs(t *testing.T) {
	messages := []string{"Add feature"}
	ps := patchset.PatchSet{Added: []string{"new.patch"}, Deleted: []string{"old.patch"}}

	rec := Build(messages, ps)
	messages[0] = "changed"
	ps.Added[0] = "changed.patch"

	assert.Equal(t, []string{"Add feature"}, rec.Messages)
	assert.Equal(t, []string{"new.patch"}, rec.Added)
	assert.Equal(t, []string{}, rec.Modified)
	assert.Equal(t, []string{"old.patch"}, rec.Deleted)
}

func TestRecord_IsEmpty(t *testing.T) {
	tests := map[string]struct {
		rec  Record
		want bool
	}{
		"no messages no patches": {rec: Build(nil, patchset.PatchSet{}), want: true},
		"patches only":           {rec: Build(nil, patchset.PatchSet{Added: []string{"foo.patch"}}), want: true},
		"messages":               {rec: Build([]string{"Fix"}, patchset.PatchSet{}), want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.IsEmpty())
		})
	}
}

func TestRecord_Slots(t *testing.T) {
	rec := Build([]string{"m"}, patchset.PatchSet{Modified: []string{"bar.patch"}})
	slots := rec.Slots()

	assert.Len(t, slots, 4)
	assert.Equal(t, []string{"m"}, slots[SlotMessages])
	assert.Equal(t, []string{"bar.patch"}, slots[SlotModified])
	assert.Empty(t, slots[SlotAdded])
	assert.Empty(t, slots[SlotDeleted])
}
