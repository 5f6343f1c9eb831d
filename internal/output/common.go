package output

import (
	"io"
	"os"
)

const reportDateTimeLayout = "2006-01-02T15:04:05Z07:00"

// Change kinds used in flat report rows.
const (
	KindAdded    = "added"
	KindModified = "modified"
	KindDeleted  = "deleted"
)

// changeEntry is one patch file change in report order.
type changeEntry struct {
	Kind string
	Name string
}

// changeEntries flattens the record's patch lists: added, then modified,
// then deleted, each in its recency order.
func changeEntries(report *RangeReport) []changeEntry {
	rec := report.Record
	entries := make([]changeEntry, 0, len(rec.Added)+len(rec.Modified)+len(rec.Deleted))
	for _, n := range rec.Added {
		entries = append(entries, changeEntry{Kind: KindAdded, Name: n})
	}
	for _, n := range rec.Modified {
		entries = append(entries, changeEntry{Kind: KindModified, Name: n})
	}
	for _, n := range rec.Deleted {
		entries = append(entries, changeEntry{Kind: KindDeleted, Name: n})
	}
	return entries
}

func rangeLabel(report *RangeReport) string {
	return report.From.Short() + ".." + report.To.Short()
}

func openOutputWriter(options OutputOptions) (io.Writer, *os.File, error) {
	if options.OutputPath == "" {
		if options.Writer != nil {
			return options.Writer, nil, nil
		}
		return os.Stdout, nil, nil
	}
	file, err := os.Create(options.OutputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
