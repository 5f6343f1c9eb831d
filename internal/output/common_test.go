package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestChangeEntries_Order(t *testing.T) {
	entries := changeEntries(sampleReport())

	expected := []changeEntry{
		{Kind: KindAdded, Name: "new.patch"},
		{Kind: KindModified, Name: "bar.patch"},
		{Kind: KindDeleted, Name: "old.patch"},
	}
	if len(entries) != len(expected) {
		t.Fatalf("got %d entries, expected %d", len(entries), len(expected))
	}
	for i := range expected {
		if entries[i] != expected[i] {
			t.Errorf("entries[%d] = %+v, expected %+v", i, entries[i], expected[i])
		}
	}
}

func TestRangeLabel(t *testing.T) {
	if got := rangeLabel(sampleReport()); got != "111111111111..222222222222" {
		t.Errorf("rangeLabel = %q", got)
	}
}

func TestOpenOutputWriter(t *testing.T) {
	t.Run("ExplicitWriter", func(t *testing.T) {
		var buf bytes.Buffer
		w, file, err := openOutputWriter(OutputOptions{Writer: &buf})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if file != nil || w != &buf {
			t.Error("expected the provided writer")
		}
	})

	t.Run("Stdout", func(t *testing.T) {
		w, file, err := openOutputWriter(OutputOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if file != nil || w != os.Stdout {
			t.Error("expected stdout")
		}
	})

	t.Run("FileWins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		var buf bytes.Buffer
		w, file, err := openOutputWriter(OutputOptions{OutputPath: path, Writer: &buf})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer file.Close()
		if file == nil || w == &buf {
			t.Error("expected a file writer")
		}
	})

	t.Run("BadPath", func(t *testing.T) {
		_, _, err := openOutputWriter(OutputOptions{OutputPath: filepath.Join(t.TempDir(), "missing", "out.txt")})
		if err == nil {
			t.Error("expected error for unwritable path")
		}
	})
}
