package messages

import (
	"context"
	"fmt"
	"strings"

	"github.com/masmgr/updatechangelog-go/internal/git"
	"github.com/masmgr/updatechangelog-go/internal/logging"
)

// Collector gathers the message lines of a commit range.
type Collector struct {
	reader git.CommitGraphReader
	filter *LineFilter
	log    *logging.Logger
}

// NewCollector creates a Collector. A nil filter applies only the default
// skip marker.
func NewCollector(reader git.CommitGraphReader, filter *LineFilter, log *logging.Logger) *Collector {
	if filter == nil {
		filter = &LineFilter{markers: []string{DefaultSkipMarker}}
	}
	return &Collector{reader: reader, filter: filter, log: log.With("[messages]")}
}

// Collect returns the kept lines of every commit on the first-parent chain
// from head back to, but excluding, last. Commits are visited newest first
// and lines keep their order within a commit.
func (c *Collector) Collect(ctx context.Context, head, last git.Revision) ([]string, error) {
	commits, err := c.reader.MessagesBetween(ctx, head, last)
	if err != nil {
		return nil, fmt.Errorf("reading messages %s..%s: %w", last.Short(), head.Short(), err)
	}

	lines := []string{}
	skipped := 0
	for _, commit := range commits {
		for _, line := range commit.Lines() {
			line = strings.TrimRight(line, " \t\r\n\v\f")
			if line == "" {
				continue
			}
			if !c.filter.Keep(line) {
				skipped++
				continue
			}
			lines = append(lines, line)
		}
	}

	c.log.Debugf("%d commits, %d lines kept, %d skipped", len(commits), len(lines), skipped)
	return lines, nil
}
