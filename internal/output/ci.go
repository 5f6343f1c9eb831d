package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CIWriter writes range reports as NDJSON (one JSON object per line) for CI pipelines.
type CIWriter struct{}

// CISummary is the first line of CI output, containing aggregate counts.
type CISummary struct {
	Type          string `json:"type"`
	From          string `json:"from"`
	To            string `json:"to"`
	MessageCount  int    `json:"messageCount"`
	AddedCount    int    `json:"addedCount"`
	ModifiedCount int    `json:"modifiedCount"`
	DeletedCount  int    `json:"deletedCount"`
	Publishable   bool   `json:"publishable"`
}

// CIEntry represents a single patch change or message line in CI output.
type CIEntry struct {
	Type  string `json:"type"`
	Kind  string `json:"kind,omitempty"`
	Value string `json:"value"`
}

// Write outputs the range report as NDJSON.
func (w *CIWriter) Write(report *RangeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	rec := report.Record
	summary := CISummary{
		Type:          "summary",
		From:          report.From.String(),
		To:            report.To.String(),
		MessageCount:  len(rec.Messages),
		AddedCount:    len(rec.Added),
		ModifiedCount: len(rec.Modified),
		DeletedCount:  len(rec.Deleted),
		Publishable:   !rec.IsEmpty(),
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, m := range rec.Messages {
		if err := writeNDJSONLine(out, CIEntry{Type: "message", Value: m}); err != nil {
			return err
		}
	}
	for _, e := range changeEntries(report) {
		if err := writeNDJSONLine(out, CIEntry{Type: "patch", Kind: e.Kind, Value: e.Name}); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
