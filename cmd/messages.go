package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// MessagesCmd returns the messages command.
func MessagesCmd() *cli.Command {
	return &cli.Command{
		Name:      "messages",
		Aliases:   []string{"m"},
		Usage:     "List the commit message lines that would be published",
		ArgsUsage: "[from..to]",
		Flags:     rangeFlags(),
		Action:    messagesAction,
	}
}

func messagesAction(c *cli.Context) error {
	rc, err := newRangeCommand(c)
	if err != nil {
		return err
	}

	lines, err := rc.Pipeline.Collector().Collect(c.Context, rc.Head, rc.Last)
	if err != nil {
		return err
	}

	for _, line := range lines {
		fmt.Fprintln(rc.Stdout, line)
	}
	rc.Logger.Debugf("%d lines between %s and %s", len(lines), rc.Last.Short(), rc.Head.Short())
	return nil
}
