package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// RenderCmd returns the render command.
func RenderCmd() *cli.Command {
	flags := append(rangeFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (text, console, json, yaml, csv, markdown, ci)",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	)

	return &cli.Command{
		Name:      "render",
		Usage:     "Render the changelog entry without publishing it",
		ArgsUsage: "[from..to]",
		Flags:     flags,
		Action:    renderAction,
	}
}

func renderAction(c *cli.Context) error {
	from, to, err := revisionRange(c)
	if err != nil {
		return err
	}
	cc, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	runner, err := cc.Runner(nil)
	if err != nil {
		return err
	}

	res, err := runner.Preview(c.Context, from, to)
	if err != nil {
		return err
	}

	if strings.EqualFold(c.String("format"), "text") {
		if res.Rendered == "" {
			cc.Logger.Infof("Nothing new.")
			return nil
		}
		if path := c.String("output"); path != "" {
			if err := os.WriteFile(path, []byte(res.Rendered+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			return nil
		}
		fmt.Fprintln(cc.Stdout, res.Rendered)
		return nil
	}

	rc := &rangeCommand{CommandContext: cc, Pipeline: runner, Last: res.Last, Head: res.Head}
	report := rc.newReport()
	report.Record = res.Record
	report.Rendered = res.Rendered
	return writeRangeReport(c, rc, report)
}
