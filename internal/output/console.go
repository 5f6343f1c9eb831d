package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleWriter writes range reports for a terminal.
type ConsoleWriter struct{}

// Write outputs the range report to the console.
func (w *ConsoleWriter) Write(report *RangeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	header := color.New(color.FgGreen)
	header.Fprintln(out, "Changelog Update Preview")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Range: %s\n", rangeLabel(report))

	rec := report.Record
	fmt.Fprintf(out, "Messages: %d, Added: %d, Modified: %d, Deleted: %d\n\n",
		len(rec.Messages), len(rec.Added), len(rec.Modified), len(rec.Deleted))

	if len(rec.Messages) > 0 {
		header.Fprintln(out, "Messages")
		for _, m := range rec.Messages {
			fmt.Fprintf(out, "  %s\n", m)
		}
		fmt.Fprintln(out)
	}

	entries := changeEntries(report)
	if len(entries) == 0 {
		fmt.Fprintln(out, "No patch changes.")
	} else {
		header.Fprintln(out, "Patches")
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tChange\tFile")
		for i, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, kindColor(e.Kind)(e.Kind), e.Name)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if report.Rendered != "" {
		fmt.Fprintln(out)
		header.Fprintln(out, "Entry")
		fmt.Fprintln(out, report.Rendered)
	} else if rec.IsEmpty() {
		fmt.Fprintln(out)
		color.New(color.FgYellow).Fprintln(out, "Nothing new.")
	}

	return nil
}

func kindColor(kind string) func(string, ...interface{}) string {
	switch kind {
	case KindAdded:
		return color.GreenString
	case KindDeleted:
		return color.RedString
	default:
		return color.YellowString
	}
}
