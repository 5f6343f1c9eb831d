package git_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/masmgr/updatechangelog-go/internal/git"
	"github.com/masmgr/updatechangelog-go/internal/logging"
	"github.com/masmgr/updatechangelog-go/internal/testutil"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type history struct {
	dir            string
	c1, c2, c3, c4 git.Revision
}

func buildHistory(t *testing.T) history {
	t.Helper()
	repo := testutil.NewRepo(t)

	c1 := repo.Commit("Initial import", base,
		testutil.Write("salt/a.patch", "a1"),
		testutil.Write("salt/b.patch", "b1"),
		testutil.Write("salt/README.md", "readme"),
		testutil.Write("other/c.patch", "c1"),
	)
	c2 := repo.Commit("Update b\n\nDrop a, add d\n", base.Add(time.Hour),
		testutil.Write("salt/b.patch", "b2"),
		testutil.Write("salt/d.patch", "d1"),
		testutil.Remove("salt/a.patch"),
	)
	c3 := repo.Commit("Add nested patch", base.Add(2*time.Hour),
		testutil.Write("salt/sub/e.patch", "e1"),
	)
	c4 := repo.Commit("Touch other tree only", base.Add(3*time.Hour),
		testutil.Write("other/c.patch", "c2"),
	)

	return history{
		dir: repo.Dir,
		c1:  git.Revision(c1),
		c2:  git.Revision(c2),
		c3:  git.Revision(c3),
		c4:  git.Revision(c4),
	}
}

func backends(t *testing.T, dir string) map[string]git.CommitGraphReader {
	t.Helper()
	opts := git.ReadOptions{RepoPath: dir, PatchDir: "salt", Pattern: "*.patch"}

	gogit, err := git.NewGraphReader(opts, logging.Discard())
	if err != nil {
		t.Fatalf("NewGraphReader: %v", err)
	}
	readers := map[string]git.CommitGraphReader{"go-git": gogit}

	if _, err := exec.LookPath("git"); err == nil {
		cli, err := git.NewCLIReader(context.Background(), opts, logging.Discard())
		if err != nil {
			t.Fatalf("NewCLIReader: %v", err)
		}
		readers["git-cli"] = cli
	}
	return readers
}

func TestReaders_ResolveAndCommit(t *testing.T) {
	h := buildHistory(t)
	ctx := context.Background()

	for name, r := range backends(t, h.dir) {
		t.Run(name, func(t *testing.T) {
			head, err := r.ResolveHead(ctx)
			if err != nil {
				t.Fatalf("ResolveHead: %v", err)
			}
			if head != h.c4 {
				t.Errorf("ResolveHead = %s, expected %s", head, h.c4)
			}

			prev, err := r.Resolve(ctx, "HEAD~2")
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if prev != h.c2 {
				t.Errorf("Resolve(HEAD~2) = %s, expected %s", prev, h.c2)
			}

			if _, err := r.Resolve(ctx, "no-such-ref"); !errors.Is(err, git.ErrUnknownRevision) {
				t.Errorf("Resolve(no-such-ref) error = %v, expected ErrUnknownRevision", err)
			}

			info, err := r.Commit(ctx, h.c2)
			if err != nil {
				t.Fatalf("Commit: %v", err)
			}
			if info.SHA != h.c2 {
				t.Errorf("SHA = %s, expected %s", info.SHA, h.c2)
			}
			if info.Author.Email != testutil.AuthorEmail {
				t.Errorf("Author.Email = %q, expected %q", info.Author.Email, testutil.AuthorEmail)
			}
			if !info.When.Equal(base.Add(time.Hour)) {
				t.Errorf("When = %v, expected %v", info.When, base.Add(time.Hour))
			}
		})
	}
}

func TestReaders_IsAncestor(t *testing.T) {
	h := buildHistory(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		a, b     git.Revision
		expected bool
	}{
		{name: "Older is ancestor of newer", a: h.c1, b: h.c4, expected: true},
		{name: "Newer is not ancestor of older", a: h.c4, b: h.c1, expected: false},
		{name: "Revision is its own ancestor", a: h.c2, b: h.c2, expected: true},
		{name: "Unknown revision", a: "0123456789abcdef0123456789abcdef01234567", b: h.c4, expected: false},
	}

	for name, r := range backends(t, h.dir) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, err := r.IsAncestor(ctx, tt.a, tt.b)
				if err != nil {
					t.Fatalf("IsAncestor: %v", err)
				}
				if got != tt.expected {
					t.Errorf("IsAncestor = %v, expected %v", got, tt.expected)
				}
			})
		}
	}
}

func TestReaders_ListPatchFiles(t *testing.T) {
	h := buildHistory(t)
	ctx := context.Background()

	tests := []struct {
		rev      git.Revision
		expected []string
	}{
		{rev: h.c1, expected: []string{"a.patch", "b.patch"}},
		{rev: h.c2, expected: []string{"b.patch", "d.patch"}},
		// nested directories and other extensions are ignored
		{rev: h.c3, expected: []string{"b.patch", "d.patch"}},
	}

	for name, r := range backends(t, h.dir) {
		for i, tt := range tests {
			t.Run(name, func(t *testing.T) {
				got, err := r.ListPatchFiles(ctx, tt.rev)
				if err != nil {
					t.Fatalf("ListPatchFiles: %v", err)
				}
				assertNames(t, got.Sorted(), tt.expected, i)
			})
		}
	}
}

func TestReaders_ListPatchFiles_MissingDirectory(t *testing.T) {
	repo := testutil.NewRepo(t)
	rev := git.Revision(repo.Commit("No patches yet", base, testutil.Write("README", "x")))

	for name, r := range backends(t, repo.Dir) {
		t.Run(name, func(t *testing.T) {
			got, err := r.ListPatchFiles(context.Background(), rev)
			if err != nil {
				t.Fatalf("ListPatchFiles: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("expected empty set, got %v", got.Sorted())
			}
		})
	}
}

func TestReaders_DiffPatchFiles(t *testing.T) {
	h := buildHistory(t)
	ctx := context.Background()

	for name, r := range backends(t, h.dir) {
		t.Run(name, func(t *testing.T) {
			got, err := r.DiffPatchFiles(ctx, h.c4, h.c1)
			if err != nil {
				t.Fatalf("DiffPatchFiles: %v", err)
			}
			// a.patch was removed and d.patch added; only b.patch changed content
			assertNames(t, got.Sorted(), []string{"b.patch"}, 0)

			same, err := r.DiffPatchFiles(ctx, h.c4, h.c3)
			if err != nil {
				t.Fatalf("DiffPatchFiles: %v", err)
			}
			if len(same) != 0 {
				t.Errorf("expected no changes between c3 and c4, got %v", same.Sorted())
			}
		})
	}
}

func TestReaders_LastTouchTime(t *testing.T) {
	h := buildHistory(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		file     string
		expected time.Time
	}{
		{name: "Modified file", file: "b.patch", expected: base.Add(time.Hour)},
		{name: "Deleted file", file: "a.patch", expected: base.Add(time.Hour)},
		{name: "Added file", file: "d.patch", expected: base.Add(time.Hour)},
		{name: "Never existed", file: "zzz.patch", expected: time.Time{}},
	}

	for name, r := range backends(t, h.dir) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, err := r.LastTouchTime(ctx, h.c4, tt.file)
				if err != nil {
					t.Fatalf("LastTouchTime: %v", err)
				}
				if !got.Equal(tt.expected) {
					t.Errorf("LastTouchTime(%s) = %v, expected %v", tt.file, got, tt.expected)
				}
			})
		}
	}
}

func TestReaders_MessagesBetween(t *testing.T) {
	h := buildHistory(t)
	ctx := context.Background()

	for name, r := range backends(t, h.dir) {
		t.Run(name, func(t *testing.T) {
			msgs, err := r.MessagesBetween(ctx, h.c4, h.c1)
			if err != nil {
				t.Fatalf("MessagesBetween: %v", err)
			}
			want := []git.Revision{h.c4, h.c3, h.c2}
			if len(msgs) != len(want) {
				t.Fatalf("got %d messages, expected %d", len(msgs), len(want))
			}
			for i, rev := range want {
				if msgs[i].Revision != rev {
					t.Errorf("msgs[%d].Revision = %s, expected %s", i, msgs[i].Revision, rev)
				}
			}
			if lines := msgs[2].Lines(); lines[0] != "Update b" || lines[2] != "Drop a, add d" {
				t.Errorf("unexpected lines for c2: %q", lines)
			}

			middle, err := r.MessagesBetween(ctx, h.c3, h.c1)
			if err != nil {
				t.Fatalf("MessagesBetween: %v", err)
			}
			if len(middle) != 2 || middle[0].Revision != h.c3 || middle[1].Revision != h.c2 {
				t.Errorf("MessagesBetween(c3, c1) = %+v, expected c3 then c2", middle)
			}

			none, err := r.MessagesBetween(ctx, h.c4, h.c4)
			if err != nil {
				t.Fatalf("MessagesBetween: %v", err)
			}
			if len(none) != 0 {
				t.Errorf("expected no messages for empty range, got %d", len(none))
			}

			if _, err := r.MessagesBetween(ctx, h.c2, h.c4); !errors.Is(err, git.ErrRevisionNotReached) {
				t.Errorf("expected ErrRevisionNotReached, got %v", err)
			}
		})
	}
}

func TestValidateAncestry(t *testing.T) {
	h := buildHistory(t)
	ctx := context.Background()

	for name, r := range backends(t, h.dir) {
		t.Run(name, func(t *testing.T) {
			if err := git.ValidateAncestry(ctx, r, h.c1, h.c4); err != nil {
				t.Errorf("expected nil, got %v", err)
			}

			err := git.ValidateAncestry(ctx, r, h.c4, h.c1)
			var integrity *git.IntegrityError
			if !errors.As(err, &integrity) {
				t.Fatalf("expected IntegrityError, got %v", err)
			}
			if integrity.Last != h.c4 || integrity.Head != h.c1 {
				t.Errorf("IntegrityError = %+v", integrity)
			}
		})
	}
}

func assertNames(t *testing.T, got, expected []string, idx int) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("case %d: got %v, expected %v", idx, got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("case %d: got %v, expected %v", idx, got, expected)
			return
		}
	}
}

func TestReaders_MessagesBetween_SecondParentOnly(t *testing.T) {
	repo := testutil.NewRepo(t)
	c1 := repo.Commit("Root", base, testutil.Write("README", "1"))
	c2 := repo.Commit("Mainline", base.Add(time.Hour), testutil.Write("README", "2"))
	side := repo.CommitWithParents("Side", base.Add(2*time.Hour), []string{c1}, testutil.Write("salt/s.patch", "s"))
	merge := repo.CommitWithParents("Merge side", base.Add(3*time.Hour), []string{c2, side})

	for name, r := range backends(t, repo.Dir) {
		t.Run(name, func(t *testing.T) {
			_, err := r.MessagesBetween(context.Background(), git.Revision(merge), git.Revision(side))
			if !errors.Is(err, git.ErrRevisionNotReached) {
				t.Errorf("expected ErrRevisionNotReached, got %v", err)
			}

			msgs, err := r.MessagesBetween(context.Background(), git.Revision(merge), git.Revision(c2))
			if err != nil {
				t.Fatalf("MessagesBetween: %v", err)
			}
			if len(msgs) != 1 || msgs[0].Revision != git.Revision(merge) {
				t.Errorf("MessagesBetween(merge, c2) = %+v", msgs)
			}
		})
	}
}
