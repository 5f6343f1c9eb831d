package cmd

import (
	"github.com/masmgr/updatechangelog-go/internal/changelog"
	"github.com/urfave/cli/v2"
)

// DiffCmd returns the diff command.
func DiffCmd() *cli.Command {
	flags := append(rangeFlags(),
		formatFlag("console"),
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	)

	return &cli.Command{
		Name:      "diff",
		Aliases:   []string{"d"},
		Usage:     "Show added, modified and removed patch files",
		ArgsUsage: "[from..to]",
		Flags:     flags,
		Action:    diffAction,
	}
}

func diffAction(c *cli.Context) error {
	rc, err := newRangeCommand(c)
	if err != nil {
		return err
	}

	ps, err := rc.Pipeline.Differ().Diff(c.Context, rc.Last, rc.Head)
	if err != nil {
		return err
	}

	report := rc.newReport()
	report.Record = changelog.Build(nil, ps)
	return writeRangeReport(c, rc, report)
}
