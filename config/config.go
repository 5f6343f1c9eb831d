// Package config loads updatechangelog settings from defaults, a config
// file and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Repository RepositoryConfig `koanf:"repository" json:"repository" yaml:"repository" toml:"repository"`
	Marker     MarkerConfig     `koanf:"marker" json:"marker" yaml:"marker" toml:"marker"`
	Patches    PatchesConfig    `koanf:"patches" json:"patches" yaml:"patches" toml:"patches"`
	Messages   MessagesConfig   `koanf:"messages" json:"messages" yaml:"messages" toml:"messages"`
	Template   TemplateConfig   `koanf:"template" json:"template" yaml:"template" toml:"template"`
	Publish    PublishConfig    `koanf:"publish" json:"publish" yaml:"publish" toml:"publish"`
	Policy     PolicyConfig     `koanf:"policy" json:"policy" yaml:"policy" toml:"policy"`

	// Path is the file the configuration was read from, if any.
	Path string `koanf:"-" json:"-" yaml:"-" toml:"-"`
}

// RepositoryConfig selects the repository and how it is read.
type RepositoryConfig struct {
	Path    string `koanf:"path" json:"path" yaml:"path" toml:"path"`
	Backend string `koanf:"backend" json:"backend" yaml:"backend" toml:"backend"` // go-git or git-cli
	Head    string `koanf:"head" json:"head" yaml:"head" toml:"head"`             // Revision treated as the new state
}

// MarkerConfig holds the revision marker location.
type MarkerConfig struct {
	Path string `koanf:"path" json:"path" yaml:"path" toml:"path"`
}

// PatchesConfig describes which files count as patches.
type PatchesConfig struct {
	Dir     string   `koanf:"dir" json:"dir" yaml:"dir" toml:"dir"`
	Pattern string   `koanf:"pattern" json:"pattern" yaml:"pattern" toml:"pattern"`
	Exclude []string `koanf:"exclude" json:"exclude" yaml:"exclude" toml:"exclude"`
}

// MessagesConfig controls which commit message lines are dropped.
type MessagesConfig struct {
	SkipMarkers  []string `koanf:"skip_markers" json:"skip_markers" yaml:"skip_markers" toml:"skip_markers"`
	SkipPatterns []string `koanf:"skip_patterns" json:"skip_patterns" yaml:"skip_patterns" toml:"skip_patterns"`
}

// TemplateConfig selects the entry template. An empty path uses the built-in one.
type TemplateConfig struct {
	Path string `koanf:"path" json:"path" yaml:"path" toml:"path"`
}

// PublishConfig describes the packaging tool invocation.
type PublishConfig struct {
	Command     string   `koanf:"command" json:"command" yaml:"command" toml:"command"`
	Args        []string `koanf:"args" json:"args" yaml:"args" toml:"args"`
	MessageFlag string   `koanf:"message_flag" json:"message_flag" yaml:"message_flag" toml:"message_flag"`
	AuthorEnv   string   `koanf:"author_env" json:"author_env" yaml:"author_env" toml:"author_env"`
}

// PolicyConfig controls when the marker advances.
type PolicyConfig struct {
	AdvanceWhenEmpty        bool `koanf:"advance_when_empty" json:"advance_when_empty" yaml:"advance_when_empty" toml:"advance_when_empty"`
	AdvanceOnPublishFailure bool `koanf:"advance_on_publish_failure" json:"advance_on_publish_failure" yaml:"advance_on_publish_failure" toml:"advance_on_publish_failure"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Repository: RepositoryConfig{
			Path:    ".",
			Backend: "go-git",
			Head:    "HEAD",
		},
		Marker: MarkerConfig{
			Path: "_lastrevision",
		},
		Patches: PatchesConfig{
			Dir:     "salt",
			Pattern: "*.patch",
			Exclude: []string{},
		},
		Messages: MessagesConfig{
			SkipMarkers:  []string{"[skip]"},
			SkipPatterns: []string{},
		},
		Publish: PublishConfig{
			Command:     "/usr/lib/build/vc",
			Args:        []string{},
			MessageFlag: "-m",
			AuthorEnv:   "mailaddr",
		},
		Policy: PolicyConfig{
			AdvanceWhenEmpty:        true,
			AdvanceOnPublishFailure: false,
		},
	}
}

// Format is a serialization format for configuration files.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config file extension %q (expected .json, .yml, .yaml or .toml)", filepath.Ext(path))
	}
}

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown config format %q (expected json, yaml or toml)", s)
	}
}

// Marshal encodes cfg in the given format.
func Marshal(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(cfg)
	case FormatTOML:
		return toml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}

// SaveConfig saves configuration to a file, choosing the format from its extension.
func SaveConfig(cfg *Config, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(cfg, format)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// tomlParser adapts go-toml to koanf's Parser interface.
type tomlParser struct{}

var _ koanf.Parser = tomlParser{}

func (tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(m map[string]interface{}) ([]byte, error) {
	return toml.Marshal(m)
}
