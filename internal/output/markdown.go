package output

import (
	"fmt"
	"strings"
)

// MarkdownWriter writes range reports as Markdown.
type MarkdownWriter struct{}

// Write outputs the range report as Markdown.
func (w *MarkdownWriter) Write(report *RangeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	rec := report.Record

	fmt.Fprintln(out, "# Changelog Update Preview")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Range:** `%s`\n\n", rangeLabel(report))

	if len(rec.Messages) > 0 {
		fmt.Fprintln(out, "## Messages")
		fmt.Fprintln(out)
		for _, m := range rec.Messages {
			fmt.Fprintf(out, "- %s\n", escapeMarkdown(m))
		}
		fmt.Fprintln(out)
	}

	entries := changeEntries(report)
	if len(entries) > 0 {
		fmt.Fprintln(out, "## Patches")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "| # | Change | File |")
		fmt.Fprintln(out, "|---|--------|------|")
		for i, e := range entries {
			fmt.Fprintf(out, "| %d | %s %s | `%s` |\n", i+1, kindEmoji(e.Kind), e.Kind, e.Name)
		}
		fmt.Fprintln(out)
	}

	if report.Rendered != "" {
		fmt.Fprintln(out, "## Entry")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "```")
		fmt.Fprintln(out, report.Rendered)
		fmt.Fprintln(out, "```")
	}

	return nil
}

func kindEmoji(kind string) string {
	switch kind {
	case KindAdded:
		return "🟢"
	case KindDeleted:
		return "🔴"
	default:
		return "🟡"
	}
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
