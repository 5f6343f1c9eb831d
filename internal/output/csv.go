package output

import (
	"encoding/csv"
)

// CSVWriter writes range reports as CSV with one row per patch change and
// per message line.
type CSVWriter struct{}

// Write outputs the range report as CSV.
func (w *CSVWriter) Write(report *RangeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	if err := writer.Write([]string{"Kind", "Value", "From", "To"}); err != nil {
		return err
	}

	from, to := report.From.String(), report.To.String()
	for _, m := range report.Record.Messages {
		if err := writer.Write([]string{"message", m, from, to}); err != nil {
			return err
		}
	}
	for _, e := range changeEntries(report) {
		if err := writer.Write([]string{e.Kind, e.Name, from, to}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
