package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/masmgr/updatechangelog-go/config"
	"github.com/masmgr/updatechangelog-go/internal/logging"
	"github.com/masmgr/updatechangelog-go/internal/pipeline"
	"github.com/masmgr/updatechangelog-go/internal/progress"
	"github.com/masmgr/updatechangelog-go/internal/publish"
	"github.com/urfave/cli/v2"
)

// UpdateCmd returns the update command. It is also the default action.
func UpdateCmd() *cli.Command {
	return &cli.Command{
		Name:    "update",
		Aliases: []string{"u"},
		Usage:   "Publish a changelog entry for everything since the recorded revision",
		Flags:   updateFlags(),
		Action:  updateAction,
	}
}

func updateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "Print the entry without publishing it or recording the revision",
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "Disable the progress spinner",
		},
	}
}

func updateAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return &config.ValidationError{Field: "arguments", Message: fmt.Sprintf("unexpected argument %q", c.Args().First())}
	}

	cc, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	dryRun := c.Bool("dry-run")
	var pub publish.Publisher
	if !dryRun {
		pub = cc.Publisher()
	}
	runner, err := cc.Runner(pub)
	if err != nil {
		return err
	}

	showProgress := !c.Bool("no-progress") && cc.Logger.Level() == logging.LevelInfo
	indicator := progress.Start(cc.Stderr, "Reading history...", showProgress, terminalOf(cc.Stderr))
	runner.OnProgress(indicator.Update)

	var res *pipeline.Result
	if dryRun {
		res, err = runner.Preview(c.Context, "", "")
	} else {
		res, err = runner.Run(c.Context)
	}
	indicator.Stop()
	if err != nil {
		return err
	}

	printUpdateResult(cc.Stdout, res, dryRun)
	return nil
}

func printUpdateResult(w io.Writer, res *pipeline.Result, dryRun bool) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()

	if res.Record.IsEmpty() {
		fmt.Fprintf(w, "Nothing new between %s and %s.\n", res.Last.Short(), res.Head.Short())
		if res.MarkerAdvanced {
			fmt.Fprintf(w, "Recorded %s\n", res.Head.Short())
		}
		return
	}

	if dryRun {
		fmt.Fprintf(w, "%s\n\n", green(fmt.Sprintf("Changelog entry for %s..%s (dry run)", res.Last.Short(), res.Head.Short())))
		fmt.Fprintln(w, res.Rendered)
		return
	}

	fmt.Fprintf(w, "%s %d lines, %d patch changes (author %s)\n",
		green("Published"), len(res.Record.Messages), res.Record.PatchSet().Len(), res.Author)
	if res.MarkerAdvanced {
		fmt.Fprintf(w, "Recorded %s\n", res.Head.Short())
	}
}

// terminalOf reports terminal capabilities for w, which are only known for files.
func terminalOf(w io.Writer) progress.TerminalCapabilities {
	if f, ok := w.(*os.File); ok {
		return progress.DetectTerminalCapabilities(f)
	}
	return progress.TerminalCapabilities{}
}
