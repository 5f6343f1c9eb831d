package revision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masmgr/updatechangelog-go/internal/git"
)

const sampleRev = git.Revision("0123456789abcdef0123456789abcdef01234567")

func TestFileStore_Load(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		wantRev git.Revision
		wantOK  bool
	}{
		{name: "missing file", content: nil},
		{name: "empty file", content: strPtr("")},
		{name: "whitespace only", content: strPtr("  \n\t\n")},
		{name: "bare hash", content: strPtr(string(sampleRev)), wantRev: sampleRev, wantOK: true},
		{name: "hash with newline", content: strPtr(string(sampleRev) + "\n"), wantRev: sampleRev, wantOK: true},
		{name: "hash with CRLF", content: strPtr(string(sampleRev) + "\r\n"), wantRev: sampleRev, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultPath)
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			rev, ok, err := NewFileStore(path).Load()
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRev, rev)
		})
	}
}

func TestFileStore_LoadUnreadable(t *testing.T) {
	// a directory in place of the marker cannot be read as a file
	dir := t.TempDir()

	_, _, err := NewFileStore(dir).Load()
	assert.Error(t, err)
}

func TestFileStore_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultPath)
	store := NewFileStore(path)

	require.NoError(t, store.Save(sampleRev))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(sampleRev), string(data))

	rev, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sampleRev, rev)

	next := git.Revision("fedcba9876543210fedcba9876543210fedcba98")
	require.NoError(t, store.Save(next))
	rev, _, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, next, rev)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStore_SaveFailureKeepsOldMarker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(sampleRev), 0o644))

	store := NewFileStore(filepath.Join(dir, "missing", DefaultPath))
	assert.Error(t, store.Save("abc"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(sampleRev), string(data))
}

func TestFileStore_SaveRejectsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), DefaultPath))
	assert.Error(t, store.Save(""))
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath, NewFileStore("").Path())
}

func strPtr(s string) *string {
	return &s
}
