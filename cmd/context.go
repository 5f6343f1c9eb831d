package cmd

import (
	"fmt"
	"io"

	"github.com/masmgr/updatechangelog-go/config"
	"github.com/masmgr/updatechangelog-go/internal/changelog"
	"github.com/masmgr/updatechangelog-go/internal/git"
	"github.com/masmgr/updatechangelog-go/internal/logging"
	"github.com/masmgr/updatechangelog-go/internal/messages"
	"github.com/masmgr/updatechangelog-go/internal/pipeline"
	"github.com/masmgr/updatechangelog-go/internal/publish"
	"github.com/masmgr/updatechangelog-go/internal/revision"
	"github.com/urfave/cli/v2"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all repository commands.
type CommandContext struct {
	Config *config.Config
	Logger *logging.Logger
	Reader git.CommitGraphReader
	Store  *revision.FileStore
	Stdout io.Writer
	Stderr io.Writer
}

// NewCommandContext creates a context from CLI flags.
// It loads and validates configuration, builds the logger and opens the repository.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := newLogger(c)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		log.Debugf("using config %s", cfg.Path)
	}

	reader, err := openReader(c, cfg, log)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Config: cfg,
		Logger: log,
		Reader: reader,
		Store:  revision.NewFileStore(cfg.Marker.Path),
		Stdout: c.App.Writer,
		Stderr: c.App.ErrWriter,
	}, nil
}

// newLogger builds the logger from --log-level. --verbose and --quiet
// take precedence.
func newLogger(c *cli.Context) (*logging.Logger, error) {
	level, err := logging.ParseLevel(c.String("log-level"))
	if err != nil {
		return nil, &config.ValidationError{Field: "--log-level", Message: err.Error()}
	}
	switch {
	case c.Bool("verbose"):
		level = logging.LevelDebug
	case c.Bool("quiet"):
		level = logging.LevelWarn
	}
	return logging.New(c.App.ErrWriter, level), nil
}

func openReader(c *cli.Context, cfg *config.Config, log *logging.Logger) (git.CommitGraphReader, error) {
	backend, err := git.ParseBackend(cfg.Repository.Backend)
	if err != nil {
		return nil, err
	}

	opts := git.ReadOptions{
		RepoPath: cfg.Repository.Path,
		PatchDir: cfg.Patches.Dir,
		Pattern:  cfg.Patches.Pattern,
		Exclude:  cfg.Patches.Exclude,
	}

	if backend == git.BackendGitCLI {
		reader, err := git.NewCLIReader(c.Context, opts, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open repository: %w", err)
		}
		return reader, nil
	}

	reader, err := git.NewGraphReader(opts, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return reader, nil
}

// Publisher creates the packaging tool publisher from configuration.
func (ctx *CommandContext) Publisher() *publish.CommandPublisher {
	p := ctx.Config.Publish
	// The packaging tool edits the .changes file of the package checkout in
	// the working directory, which need not be the Git repository.
	pub := publish.NewCommandPublisher(p.Command, p.Args, p.MessageFlag, p.AuthorEnv, ctx.Logger)
	pub.Stdout = ctx.Stderr
	return pub
}

// Runner creates a pipeline runner. pub may be nil for commands that never publish.
func (ctx *CommandContext) Runner(pub publish.Publisher) (*pipeline.Runner, error) {
	filter, err := messages.NewLineFilter(ctx.Config.Messages.SkipMarkers, ctx.Config.Messages.SkipPatterns)
	if err != nil {
		return nil, err
	}
	renderer, err := changelog.NewTemplateRenderer(ctx.Config.Template.Path)
	if err != nil {
		return nil, &config.ValidationError{Field: "template.path", Message: err.Error()}
	}

	return pipeline.NewRunner(pipeline.Options{
		Reader:    ctx.Reader,
		Store:     ctx.Store,
		Filter:    filter,
		Renderer:  renderer,
		Publisher: pub,
		Policy: pipeline.Policy{
			AdvanceWhenEmpty:        ctx.Config.Policy.AdvanceWhenEmpty,
			AdvanceOnPublishFailure: ctx.Config.Policy.AdvanceOnPublishFailure,
		},
		Head:   ctx.Config.Repository.Head,
		Logger: ctx.Logger,
	}), nil
}
