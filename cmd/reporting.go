package cmd

import (
	"time"

	"github.com/masmgr/updatechangelog-go/internal/git"
	"github.com/masmgr/updatechangelog-go/internal/output"
	"github.com/masmgr/updatechangelog-go/internal/pipeline"
	"github.com/urfave/cli/v2"
)

// rangeCommand is the shared setup of the read-only range commands.
type rangeCommand struct {
	*CommandContext
	Pipeline *pipeline.Runner
	Last     git.Revision
	Head     git.Revision
}

// newRangeCommand opens the repository and resolves the requested range.
func newRangeCommand(c *cli.Context) (*rangeCommand, error) {
	from, to, err := revisionRange(c)
	if err != nil {
		return nil, err
	}

	cc, err := NewCommandContext(c)
	if err != nil {
		return nil, err
	}
	runner, err := cc.Runner(nil)
	if err != nil {
		return nil, err
	}

	last, head, err := runner.ResolveRange(c.Context, from, to)
	if err != nil {
		return nil, err
	}
	return &rangeCommand{CommandContext: cc, Pipeline: runner, Last: last, Head: head}, nil
}

// OutputOptions creates OutputOptions from CLI flags.
func (rc *rangeCommand) OutputOptions(c *cli.Context) (output.OutputOptions, error) {
	format, err := getOutputFormat(c.String("format"))
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:     format,
		OutputPath: c.String("output"),
		Writer:     rc.Stdout,
	}, nil
}

func (rc *rangeCommand) newReport() *output.RangeReport {
	return &output.RangeReport{
		RepoPath:    rc.Config.Repository.Path,
		From:        rc.Last,
		To:          rc.Head,
		GeneratedAt: time.Now(),
	}
}

func writeRangeReport(c *cli.Context, rc *rangeCommand, report *output.RangeReport) error {
	opts, err := rc.OutputOptions(c)
	if err != nil {
		return err
	}
	return output.NewReportWriter(opts.Format).Write(report, opts)
}
