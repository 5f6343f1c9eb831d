package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/masmgr/updatechangelog-go/config"
	"github.com/masmgr/updatechangelog-go/internal/git"
	"github.com/masmgr/updatechangelog-go/internal/output"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "updatechangelog",
		Usage:   "Add a changelog entry for the patch and commit changes since the last run",
		Version: "1.0.0",
		Commands: []*cli.Command{
			UpdateCmd(),
			DiffCmd(),
			MessagesCmd(),
			RenderCmd(),
			MarkerCmd(),
			ConfigCmd(),
		},
		Flags:  append(globalFlags(), updateFlags()...),
		Action: updateAction,
		// Exit codes are chosen by RunWithArgs.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// globalFlags are accepted before any subcommand.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository (overrides repository.path)",
		},
		&cli.StringFlag{
			Name:  "marker",
			Usage: "Path to the last-revision marker file (overrides marker.path)",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Repository backend (go-git, git-cli)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
			Value: "info",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log debug output",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log warnings and errors",
		},
	}
}

// rangeFlags select the revisions a read-only command looks at.
func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "from",
			Usage: "Older revision (default: the recorded revision)",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "Newer revision (default: repository.head)",
		},
	}
}

// formatFlag selects a report format.
func formatFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (console, json, yaml, csv, markdown, ci)",
		Value:   value,
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) (output.OutputFormat, error) {
	format, err := output.ParseFormat(s)
	if err != nil {
		return "", &config.ValidationError{Field: "--format", Message: err.Error()}
	}
	return format, nil
}

// revisionRange returns the from and to expressions given either as a
// "from..to" argument or through --from and --to.
func revisionRange(c *cli.Context) (from, to string, err error) {
	from, to = c.String("from"), c.String("to")
	if c.NArg() == 0 {
		return from, to, nil
	}
	if c.NArg() > 1 {
		return "", "", &config.ValidationError{Field: "range", Message: "expected at most one 'from..to' argument"}
	}
	if from != "" || to != "" {
		return "", "", &config.ValidationError{Field: "range", Message: "use either a 'from..to' argument or --from/--to, not both"}
	}

	from, to, err = git.ParseRange(c.Args().First())
	if err != nil {
		return "", "", &config.ValidationError{Field: "range", Message: err.Error()}
	}
	return from, to, nil
}

// loadConfig loads configuration and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("repo") {
		cfg.Repository.Path = c.String("repo")
	}
	if c.IsSet("marker") {
		cfg.Marker.Path = c.String("marker")
	}
	if c.IsSet("backend") {
		cfg.Repository.Backend = c.String("backend")
	}

	return cfg, nil
}

// RunWithArgs runs the application with explicit arguments and streams and
// returns the process exit code.
func RunWithArgs(args []string, stdout, stderr io.Writer) int {
	app := App()
	app.Writer = stdout
	app.ErrWriter = stderr

	err := app.Run(args)
	if err != nil {
		printError(stderr, err)
	}
	return ExitCode(err)
}

// Run executes the CLI application and exits.
func Run() {
	os.Exit(RunWithArgs(os.Args, os.Stdout, os.Stderr))
}
