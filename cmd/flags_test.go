package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/masmgr/updatechangelog-go/config"
	"github.com/masmgr/updatechangelog-go/internal/git"
	"github.com/masmgr/updatechangelog-go/internal/output"
	"github.com/masmgr/updatechangelog-go/internal/pipeline"
	"github.com/masmgr/updatechangelog-go/internal/publish"
	"github.com/urfave/cli/v2"
)

func init() {
	color.NoColor = true
}

func TestGetOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    output.OutputFormat
		wantErr bool
	}{
		{input: "json", want: output.FormatJSON},
		{input: "yaml", want: output.FormatYAML},
		{input: "csv", want: output.FormatCSV},
		{input: "markdown", want: output.FormatMarkdown},
		{input: "md", want: output.FormatMarkdown},
		{input: "ci", want: output.FormatCI},
		{input: "ndjson", want: output.FormatCI},
		{input: "console", want: output.FormatConsole},
		{input: "", want: output.FormatConsole},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := getOutputFormat(tt.input)
			if tt.wantErr {
				var validation *config.ValidationError
				if !errors.As(err, &validation) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("getOutputFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func parseRange(t *testing.T, args ...string) (from, to string, err error) {
	t.Helper()
	app := &cli.App{
		Name:  "test",
		Flags: rangeFlags(),
		Action: func(c *cli.Context) error {
			from, to, err = revisionRange(c)
			return nil
		},
	}
	if runErr := app.Run(append([]string{"test"}, args...)); runErr != nil {
		t.Fatalf("app.Run: %v", runErr)
	}
	return from, to, err
}

func TestRevisionRange(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFrom string
		wantTo   string
		wantErr  bool
	}{
		{name: "NoArguments", args: nil},
		{name: "Flags", args: []string{"--from", "HEAD~3", "--to", "HEAD~1"}, wantFrom: "HEAD~3", wantTo: "HEAD~1"},
		{name: "RangeArgument", args: []string{"v1..v2"}, wantFrom: "v1", wantTo: "v2"},
		{name: "OpenRange", args: []string{"v1.."}, wantFrom: "v1", wantTo: "HEAD"},
		{name: "ThreeDot", args: []string{"v1...v2"}, wantErr: true},
		{name: "SingleRevision", args: []string{"v1"}, wantErr: true},
		{name: "TooManyArguments", args: []string{"a..b", "c..d"}, wantErr: true},
		{name: "FlagsAndArgument", args: []string{"--from", "a", "b..c"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := parseRange(t, tt.args...)
			if tt.wantErr {
				var validation *config.ValidationError
				if !errors.As(err, &validation) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if from != tt.wantFrom || to != tt.wantTo {
				t.Fatalf("revisionRange = (%q, %q), want (%q, %q)", from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "Nil", err: nil, want: ExitSuccess},
		{name: "Generic", err: errors.New("boom"), want: ExitFailure},
		{name: "Integrity", err: &git.IntegrityError{Last: "a", Head: "b"}, want: ExitIntegrity},
		{name: "WrappedIntegrity", err: fmt.Errorf("run: %w", &git.IntegrityError{Last: "a", Head: "b"}), want: ExitIntegrity},
		{name: "Marker", err: &pipeline.MarkerError{Revision: "a", Err: errors.New("read-only")}, want: ExitMarkerWrite},
		{name: "Publisher", err: &publish.ExternalToolError{Command: "vc", ExitCode: 1, Err: errors.New("exit status 1")}, want: ExitPublisher},
		{name: "Validation", err: &config.ValidationError{Field: "patches.dir", Message: "must not be empty"}, want: ExitConfig},
		{name: "Backend", err: &git.UnknownBackendError{Value: "svn"}, want: ExitConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	t.Run("Integrity", func(t *testing.T) {
		got := formatError(&git.IntegrityError{Last: "1111111111111111", Head: "2222222222222222"})
		if !strings.HasPrefix(got, "Error: 1111111111111111 is not an ancestor of 2222222222222222") {
			t.Errorf("unexpected message: %q", got)
		}
		if !strings.Contains(got, "To fix this:") || !strings.Contains(got, "updatechangelog marker set <revision>") {
			t.Errorf("missing remediation: %q", got)
		}
	})

	t.Run("Publisher", func(t *testing.T) {
		got := formatError(&publish.ExternalToolError{Command: "/usr/lib/build/vc", ExitCode: 2, Err: errors.New("exit status 2")})
		if !strings.Contains(got, "/usr/lib/build/vc is installed") || !strings.Contains(got, "--dry-run") {
			t.Errorf("missing remediation: %q", got)
		}
	})

	t.Run("Generic", func(t *testing.T) {
		got := formatError(errors.New("boom"))
		if got != "Error: boom\n" {
			t.Errorf("formatError = %q", got)
		}
	})
}
