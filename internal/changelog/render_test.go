package changelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masmgr/updatechangelog-go/internal/patchset"
)

func TestDefaultTemplate_Embedded(t *testing.T) {
	assert.Contains(t, DefaultTemplate(), ".messages")
}

func TestTemplateRenderer_Default(t *testing.T) {
	r, err := NewTemplateRenderer("")
	require.NoError(t, err)

	tests := map[string]struct {
		rec  Record
		want string
	}{
		"all sections": {
			rec: Build([]string{"Add feature", "Fix crash"}, patchset.PatchSet{
				Added:    []string{"new.patch"},
				Modified: []string{"bar.patch", "baz.patch"},
				Deleted:  []string{"old.patch"},
			}),
			want: "- Add feature\n- Fix crash\n\n" +
				"- Added:\n  * new.patch\n\n" +
				"- Modified:\n  * bar.patch\n  * baz.patch\n\n" +
				"- Removed:\n  * old.patch",
		},
		"messages only": {
			rec:  Build([]string{"Bump"}, patchset.PatchSet{}),
			want: "- Bump",
		},
		"deleted only": {
			rec:  Build([]string{"Drop"}, patchset.PatchSet{Deleted: []string{"x.patch"}}),
			want: "- Drop\n\n- Removed:\n  * x.patch",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := r.Render(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplateRenderer_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  {{ len .messages }} lines, {{ len .added }} new  \n\n"), 0o644))

	r, err := NewTemplateRenderer(path)
	require.NoError(t, err)

	got, err := r.Render(Build([]string{"a", "b"}, patchset.PatchSet{Added: []string{"x.patch"}}))
	require.NoError(t, err)
	assert.Equal(t, "2 lines, 1 new", got)
}

func TestTemplateRenderer_UnknownSlot(t *testing.T) {
	r, err := ParseTemplate("bad", "{{ .authors }}")
	require.NoError(t, err)

	_, err = r.Render(Build([]string{"a"}, patchset.PatchSet{}))
	assert.Error(t, err)
}

func TestTemplateRenderer_Errors(t *testing.T) {
	_, err := NewTemplateRenderer(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = ParseTemplate("bad", "{{ range .messages }")
	assert.Error(t, err)
}
