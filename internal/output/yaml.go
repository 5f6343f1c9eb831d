package output

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes range reports as YAML.
type YAMLWriter struct{}

// Write outputs the range report as YAML.
func (w *YAMLWriter) Write(report *RangeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(newJSONReport(report)); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}
