// Package revision persists the last revision a changelog entry was
// generated for.
package revision

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/masmgr/updatechangelog-go/internal/git"
)

// DefaultPath is the marker file name used when none is configured.
const DefaultPath = "_lastrevision"

// Store loads and saves the revision marker.
type Store interface {
	// Load returns the stored revision. ok is false when nothing has been
	// recorded yet.
	Load() (rev git.Revision, ok bool, err error)
	Save(rev git.Revision) error
}

// FileStore keeps the marker in a plain text file.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

// Path returns the marker file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the marker. A missing or blank file is not an error.
func (s *FileStore) Load() (git.Revision, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading revision marker %s: %w", s.path, err)
	}

	rev := git.Revision(strings.TrimSpace(string(data)))
	if rev.IsZero() {
		return "", false, nil
	}
	return rev, true, nil
}

// Save replaces the marker atomically: the new content is written to a
// temporary file in the same directory, synced, then renamed into place.
func (s *FileStore) Save(rev git.Revision) error {
	if rev.IsZero() {
		return fmt.Errorf("refusing to record an empty revision")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary marker in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.WriteString(rev.String()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temporary marker: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temporary marker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary marker: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting marker permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing revision marker %s: %w", s.path, err)
	}
	return nil
}
