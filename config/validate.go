package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/masmgr/updatechangelog-go/internal/git"
	"github.com/masmgr/updatechangelog-go/internal/messages"
)

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks required fields and that patterns compile.
func (c *Config) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"repository.path", c.Repository.Path},
		{"marker.path", c.Marker.Path},
		{"patches.dir", c.Patches.Dir},
		{"publish.command", c.Publish.Command},
		{"publish.message_flag", c.Publish.MessageFlag},
		{"publish.author_env", c.Publish.AuthorEnv},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "must not be empty"}
		}
	}

	if _, err := git.ParseBackend(c.Repository.Backend); err != nil {
		return &ValidationError{Field: "repository.backend", Message: err.Error()}
	}

	dir := path.Clean(strings.ReplaceAll(c.Patches.Dir, "\\", "/"))
	if path.IsAbs(dir) || dir == ".." || strings.HasPrefix(dir, "../") {
		return &ValidationError{Field: "patches.dir", Message: fmt.Sprintf("%q must be relative to the repository root", c.Patches.Dir)}
	}

	if _, err := git.NewPatchFilter(c.Patches.Pattern, c.Patches.Exclude); err != nil {
		return &ValidationError{Field: "patches.pattern", Message: err.Error()}
	}

	if _, err := messages.NewLineFilter(c.Messages.SkipMarkers, c.Messages.SkipPatterns); err != nil {
		return &ValidationError{Field: "messages.skip_patterns", Message: err.Error()}
	}

	if strings.Contains(c.Publish.AuthorEnv, "=") {
		return &ValidationError{Field: "publish.author_env", Message: "must be a variable name"}
	}
	return nil
}
