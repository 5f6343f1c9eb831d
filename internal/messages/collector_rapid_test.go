package messages

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/masmgr/updatechangelog-go/internal/logging"
)

// --- Generators ---

func genMessage() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		n := rapid.IntRange(0, 5).Draw(t, "lines")
		lines := make([]string, n)
		for i := range lines {
			word := rapid.SampledFrom([]string{"fix", "add", "drop", "", "  ", "\t"}).Draw(t, fmt.Sprintf("word%d", i))
			suffix := rapid.SampledFrom([]string{"", " [skip]", " ", "\r"}).Draw(t, fmt.Sprintf("suffix%d", i))
			lines[i] = word + suffix
		}
		return strings.Join(lines, "\n")
	})
}

// --- Property Tests ---

func TestRapidCollector_NoEmptyOrSkippedLines(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		msgs := rapid.SliceOfN(genMessage(), 1, 6).Draw(t, "messages")
		g := linearGraph(append([]string{"root"}, msgs...)...)
		c := NewCollector(g, nil, logging.Discard())

		got, err := c.Collect(context.Background(), g.Head, "a")
		if err != nil {
			t.Fatalf("Collect: %v", err)
		}
		for _, line := range got {
			if strings.TrimSpace(line) == "" {
				t.Fatalf("collected blank line %q", line)
			}
			if strings.Contains(line, DefaultSkipMarker) {
				t.Fatalf("collected skip-marked line %q", line)
			}
			if line != strings.TrimRight(line, " \t\r") {
				t.Fatalf("collected line with trailing whitespace %q", line)
			}
		}
	})
}

func TestRapidCollector_SameRevisionEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		msgs := rapid.SliceOfN(genMessage(), 1, 6).Draw(t, "messages")
		g := linearGraph(msgs...)
		c := NewCollector(g, nil, logging.Discard())

		got, err := c.Collect(context.Background(), g.Head, g.Head)
		if err != nil {
			t.Fatalf("Collect: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no lines, got %q", got)
		}
	})
}
