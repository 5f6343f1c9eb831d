package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/masmgr/updatechangelog-go/internal/changelog"
	"github.com/masmgr/updatechangelog-go/internal/git"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*ConsoleWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*YAMLWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
	_ ReportWriter = (*CIWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// Formats lists every supported format name.
func Formats() []string {
	return []string{
		string(FormatConsole), string(FormatJSON), string(FormatYAML),
		string(FormatCSV), string(FormatMarkdown), string(FormatCI),
	}
}

// ParseFormat converts a flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console", "text":
		return FormatConsole, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "ci", "ndjson":
		return FormatCI, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected one of %s)", s, strings.Join(Formats(), ", "))
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
	// Writer receives the report when OutputPath is empty; nil means stdout.
	Writer io.Writer
}

// RangeReport describes the changes between two revisions.
type RangeReport struct {
	RepoPath    string
	From        git.Revision
	To          git.Revision
	GeneratedAt time.Time
	Record      changelog.Record
	// Rendered is the changelog entry text; empty when there is nothing to publish.
	Rendered string
}

// ReportWriter writes range reports.
type ReportWriter interface {
	Write(report *RangeReport, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatYAML:
		return &YAMLWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatMarkdown:
		return &MarkdownWriter{}
	case FormatCI:
		return &CIWriter{}
	default:
		return &ConsoleWriter{}
	}
}
