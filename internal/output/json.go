package output

import (
	"encoding/json"
	"fmt"
)

// JSONWriter writes range reports as JSON.
type JSONWriter struct{}

// JSONReport is the JSON and YAML output structure for a range report.
type JSONReport struct {
	RepoPath    string   `json:"repo" yaml:"repo"`
	From        string   `json:"from" yaml:"from"`
	To          string   `json:"to" yaml:"to"`
	GeneratedAt string   `json:"generatedAt" yaml:"generatedAt"`
	Messages    []string `json:"messages" yaml:"messages"`
	Added       []string `json:"added" yaml:"added"`
	Modified    []string `json:"modified" yaml:"modified"`
	Deleted     []string `json:"deleted" yaml:"deleted"`
	Entry       string   `json:"entry,omitempty" yaml:"entry,omitempty"`
}

func newJSONReport(report *RangeReport) JSONReport {
	rec := report.Record
	return JSONReport{
		RepoPath:    report.RepoPath,
		From:        report.From.String(),
		To:          report.To.String(),
		GeneratedAt: report.GeneratedAt.Format(reportDateTimeLayout),
		Messages:    nonNil(rec.Messages),
		Added:       nonNil(rec.Added),
		Modified:    nonNil(rec.Modified),
		Deleted:     nonNil(rec.Deleted),
		Entry:       report.Rendered,
	}
}

// Write outputs the range report as JSON.
func (w *JSONWriter) Write(report *RangeReport, options OutputOptions) error {
	return writeJSON(newJSONReport(report), options)
}

func writeJSON(data interface{}, options OutputOptions) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	_, err = fmt.Fprintln(out, string(jsonData))
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
