package cmd

import (
	"errors"

	"github.com/masmgr/updatechangelog-go/config"
	"github.com/masmgr/updatechangelog-go/internal/git"
	"github.com/masmgr/updatechangelog-go/internal/pipeline"
	"github.com/masmgr/updatechangelog-go/internal/publish"
)

// Exit codes returned by the updatechangelog binary.
const (
	// ExitSuccess indicates the command completed.
	ExitSuccess = 0

	// ExitFailure indicates a failure not covered by a more specific code.
	ExitFailure = 1

	// ExitIntegrity indicates the recorded revision is not an ancestor of HEAD.
	ExitIntegrity = 2

	// ExitMarkerWrite indicates the new revision could not be recorded.
	ExitMarkerWrite = 3

	// ExitPublisher indicates the packaging tool failed.
	ExitPublisher = 4

	// ExitConfig indicates invalid configuration or flags.
	ExitConfig = 5
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		validation *config.ValidationError
		backend    *git.UnknownBackendError
		integrity  *git.IntegrityError
		marker     *pipeline.MarkerError
		tool       *publish.ExternalToolError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &backend):
		return ExitConfig
	case errors.As(err, &integrity):
		return ExitIntegrity
	case errors.As(err, &marker):
		return ExitMarkerWrite
	case errors.As(err, &tool):
		return ExitPublisher
	default:
		return ExitFailure
	}
}
