package output

import (
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/masmgr/updatechangelog-go/internal/changelog"
	"github.com/masmgr/updatechangelog-go/internal/patchset"
)

func init() {
	color.NoColor = true
}

func sampleReport() *RangeReport {
	return &RangeReport{
		RepoPath:    "/test/repo",
		From:        "1111111111111111111111111111111111111111",
		To:          "2222222222222222222222222222222222222222",
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Record: changelog.Build([]string{"Add feature", "Fix *parser* crash"}, patchset.PatchSet{
			Added:    []string{"new.patch"},
			Modified: []string{"bar.patch"},
			Deleted:  []string{"old.patch"},
		}),
		Rendered: "- Add feature\n- Fix *parser* crash",
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Pipe", input: "a|b", expected: "a\\|b"},
		{name: "Asterisk", input: "a*b", expected: "a\\*b"},
		{name: "Underscore", input: "a_b", expected: "a\\_b"},
		{name: "Backtick", input: "a`b", expected: "a\\`b"},
		{name: "No specials", input: "plain text", expected: "plain text"},
		{name: "Empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := escapeMarkdown(tt.input)
			if result != tt.expected {
				t.Errorf("escapeMarkdown(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestKindEmoji(t *testing.T) {
	tests := []struct {
		kind     string
		expected string
	}{
		{kind: KindAdded, expected: "\U0001F7E2"},
		{kind: KindModified, expected: "\U0001F7E1"},
		{kind: KindDeleted, expected: "\U0001F534"},
	}

	for _, tt := range tests {
		if got := kindEmoji(tt.kind); got != tt.expected {
			t.Errorf("kindEmoji(%q) = %q, expected %q", tt.kind, got, tt.expected)
		}
	}
}
