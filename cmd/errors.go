package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/masmgr/updatechangelog-go/config"
	"github.com/masmgr/updatechangelog-go/internal/git"
	"github.com/masmgr/updatechangelog-go/internal/pipeline"
	"github.com/masmgr/updatechangelog-go/internal/publish"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg   = color.New(color.FgRed).SprintFunc()
	fixLabel   = color.New(color.FgYellow, color.Bold).SprintFunc()
	bullet     = color.New(color.FgYellow).SprintFunc()
)

// formatError renders err with the remediation steps that apply to it.
func formatError(err error) string {
	var sb strings.Builder
	sb.WriteString(errorLabel("Error:"))
	sb.WriteString(" ")
	sb.WriteString(errorMsg(err.Error()))
	sb.WriteString("\n")

	if steps := remediation(err); len(steps) > 0 {
		sb.WriteString("\n")
		sb.WriteString(fixLabel("To fix this:"))
		sb.WriteString("\n")
		for _, step := range steps {
			sb.WriteString("  ")
			sb.WriteString(bullet("-"))
			sb.WriteString(" ")
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func printError(w io.Writer, err error) {
	fmt.Fprint(w, formatError(err))
}

func remediation(err error) []string {
	var (
		validation *config.ValidationError
		backend    *git.UnknownBackendError
		integrity  *git.IntegrityError
		marker     *pipeline.MarkerError
		tool       *publish.ExternalToolError
	)
	switch {
	case errors.As(err, &integrity):
		return []string{
			"Check whether the branch history was rewritten",
			fmt.Sprintf("Record a revision reachable from %s: updatechangelog marker set <revision>", integrity.Head.Short()),
		}
	case errors.As(err, &marker):
		return []string{
			"Check that the marker file's directory exists and is writable",
			fmt.Sprintf("Then record the revision by hand: updatechangelog marker set %s", marker.Revision),
		}
	case errors.As(err, &tool):
		return []string{
			fmt.Sprintf("Check that %s is installed and the working directory is the package checkout", tool.Command),
			"Preview the entry without publishing: updatechangelog update --dry-run",
		}
	case errors.As(err, &validation), errors.As(err, &backend):
		return []string{
			"Inspect the effective configuration: updatechangelog config show",
		}
	}
	return nil
}
