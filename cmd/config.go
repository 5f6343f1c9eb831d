package cmd

import (
	"fmt"
	"os"

	"github.com/masmgr/updatechangelog-go/config"
	"github.com/urfave/cli/v2"
)

// DefaultConfigFile is written by "config init" when no path is given.
const DefaultConfigFile = config.FileBaseName + ".yml"

// ConfigCmd returns the config command group.
func ConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or create configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (yaml, json, toml)",
						Value:   "yaml",
					},
				},
				Action: configShowAction,
			},
			{
				Name:      "init",
				Usage:     "Write a configuration file with default values",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: configInitAction,
			},
		},
	}
}

func configShowAction(c *cli.Context) error {
	format, err := config.ParseFormat(c.String("format"))
	if err != nil {
		return &config.ValidationError{Field: "--format", Message: err.Error()}
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg, format)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if cfg.Path != "" {
		fmt.Fprintf(c.App.ErrWriter, "# loaded from %s\n", cfg.Path)
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func configInitAction(c *cli.Context) error {
	path := DefaultConfigFile
	if c.NArg() > 0 {
		path = c.Args().First()
	}

	if _, err := config.FormatForPath(path); err != nil {
		return &config.ValidationError{Field: "path", Message: err.Error()}
	}
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}
