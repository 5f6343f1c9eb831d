package cmd

import (
	"fmt"

	"github.com/masmgr/updatechangelog-go/config"
	"github.com/masmgr/updatechangelog-go/internal/revision"
	"github.com/urfave/cli/v2"
)

// MarkerCmd returns the marker command group.
func MarkerCmd() *cli.Command {
	return &cli.Command{
		Name:  "marker",
		Usage: "Inspect or set the recorded revision",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the recorded revision",
				Action: markerShowAction,
			},
			{
				Name:      "set",
				Usage:     "Record a revision; it must be an ancestor of the configured head",
				ArgsUsage: "<revision>",
				Action:    markerSetAction,
			},
		},
	}
}

func markerShowAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store := revision.NewFileStore(cfg.Marker.Path)
	rev, ok, err := store.Load()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(c.App.Writer, "(none)")
		return nil
	}
	fmt.Fprintln(c.App.Writer, rev)
	return nil
}

func markerSetAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return &config.ValidationError{Field: "arguments", Message: "expected exactly one revision"}
	}

	cc, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	runner, err := cc.Runner(nil)
	if err != nil {
		return err
	}

	rev, head, err := runner.ResolveRange(c.Context, c.Args().First(), "")
	if err != nil {
		return err
	}
	if err := cc.Store.Save(rev); err != nil {
		return fmt.Errorf("failed to write %s: %w", cc.Store.Path(), err)
	}

	cc.Logger.Debugf("%s is an ancestor of %s", rev.Short(), head.Short())
	fmt.Fprintf(cc.Stdout, "Recorded %s in %s\n", rev, cc.Store.Path())
	return nil
}
