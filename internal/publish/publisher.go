// Package publish hands rendered changelog entries to the packaging tool.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/masmgr/updatechangelog-go/internal/logging"
)

// Defaults for the packaging tool invocation.
const (
	DefaultCommand     = "/usr/lib/build/vc"
	DefaultMessageFlag = "-m"
	DefaultAuthorEnv   = "mailaddr"
)

// Entry is one rendered changelog entry.
type Entry struct {
	Text   string
	Author string // Email address credited for the entry
}

// Publisher delivers an Entry.
type Publisher interface {
	Publish(ctx context.Context, e Entry) error
}

// ExternalToolError reports a packaging tool that failed to start or exited
// with a non-zero status.
type ExternalToolError struct {
	Command  string
	ExitCode int // -1 when the process did not run
	Stderr   string
	Err      error
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Command)
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// CommandPublisher runs the packaging tool as
// "<Command> <Args...> <MessageFlag> <text>" with the author exported in
// AuthorEnv. No shell is involved.
type CommandPublisher struct {
	Command     string
	Args        []string
	MessageFlag string
	AuthorEnv   string
	Dir         string    // Working directory; empty means the current one
	Stdout      io.Writer // Receives the tool's standard output; nil discards it

	log *logging.Logger
}

var _ Publisher = (*CommandPublisher)(nil)

// NewCommandPublisher creates a publisher with the given command, filling
// in defaults for empty fields.
func NewCommandPublisher(command string, args []string, messageFlag, authorEnv string, log *logging.Logger) *CommandPublisher {
	if command == "" {
		command = DefaultCommand
	}
	if messageFlag == "" {
		messageFlag = DefaultMessageFlag
	}
	if authorEnv == "" {
		authorEnv = DefaultAuthorEnv
	}
	return &CommandPublisher{
		Command:     command,
		Args:        append([]string(nil), args...),
		MessageFlag: messageFlag,
		AuthorEnv:   authorEnv,
		log:         log.With("[publish]"),
	}
}

// Argv returns the full argument list for e, command first.
func (p *CommandPublisher) Argv(e Entry) []string {
	argv := make([]string, 0, len(p.Args)+3)
	argv = append(argv, p.Command)
	argv = append(argv, p.Args...)
	argv = append(argv, p.MessageFlag, e.Text)
	return argv
}

// Publish runs the packaging tool once and waits for it.
func (p *CommandPublisher) Publish(ctx context.Context, e Entry) error {
	argv := p.Argv(e)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = p.Dir
	cmd.Env = append(os.Environ(), p.AuthorEnv+"="+e.Author)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if p.Stdout != nil {
		cmd.Stdout = p.Stdout
	}

	p.log.Debugf("running %s %s (%s=%s)", p.Command, strings.Join(p.Args, " "), p.AuthorEnv, e.Author)
	if err := cmd.Run(); err != nil {
		toolErr := &ExternalToolError{
			Command:  p.Command,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return toolErr
	}
	return nil
}
