package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. Nested keys are separated by a
// double underscore, e.g. UPDATECHANGELOG_PATCHES__DIR.
const EnvPrefix = "UPDATECHANGELOG_"

// FileBaseName is the config file name searched for when none is given.
const FileBaseName = ".updatechangelog"

var searchExtensions = []string{".yml", ".yaml", ".json", ".toml"}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Path is an explicit config file. When empty, SearchDirs are tried.
	Path string
	// SearchDirs overrides the default search locations (working directory, then home).
	SearchDirs []string
	// SkipEnv ignores environment overrides.
	SkipEnv bool
}

// LoadConfig loads configuration from path, or from the first config file
// found in the working directory or home directory when path is empty.
// Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	return Load(LoadOptions{Path: path})
}

// Load loads configuration. Priority: environment > config file > defaults.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")
	loadDefaults(k)

	path := opts.Path
	if path == "" {
		path = findConfigFile(opts.SearchDirs)
	} else if _, err := os.Stat(path); err != nil {
		return nil, &ValidationError{Field: "config", Message: fmt.Sprintf("cannot read %s: %v", path, err)}
	}

	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
			return nil, fmt.Errorf("loading environment config: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, &ValidationError{Field: "config", Message: fmt.Sprintf("decoding %s: %v", displayPath(path), err)}
	}
	cfg.Path = path
	return cfg, nil
}

// loadDefaults applies default configuration values.
func loadDefaults(k *koanf.Koanf) {
	for key, value := range defaultValues() {
		_ = k.Set(key, value)
	}
}

func defaultValues() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"repository.path":                   d.Repository.Path,
		"repository.backend":                d.Repository.Backend,
		"repository.head":                   d.Repository.Head,
		"marker.path":                       d.Marker.Path,
		"patches.dir":                       d.Patches.Dir,
		"patches.pattern":                   d.Patches.Pattern,
		"patches.exclude":                   d.Patches.Exclude,
		"messages.skip_markers":             d.Messages.SkipMarkers,
		"messages.skip_patterns":            d.Messages.SkipPatterns,
		"template.path":                     d.Template.Path,
		"publish.command":                   d.Publish.Command,
		"publish.args":                      d.Publish.Args,
		"publish.message_flag":              d.Publish.MessageFlag,
		"publish.author_env":                d.Publish.AuthorEnv,
		"policy.advance_when_empty":         d.Policy.AdvanceWhenEmpty,
		"policy.advance_on_publish_failure": d.Policy.AdvanceOnPublishFailure,
	}
}

// Keys returns every configuration key in sorted order.
func Keys() []string {
	k := koanf.New(".")
	loadDefaults(k)
	return k.Keys()
}

func loadFile(k *koanf.Koanf, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return &ValidationError{Field: "config", Message: err.Error()}
	}

	var parser koanf.Parser
	switch format {
	case FormatJSON:
		parser = json.Parser()
	case FormatYAML:
		parser = yaml.Parser()
	case FormatTOML:
		parser = tomlParser{}
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return &ValidationError{Field: "config", Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	return nil
}

func findConfigFile(dirs []string) string {
	if dirs == nil {
		dirs = []string{"."}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			dirs = append(dirs, home)
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			dirs = append(dirs, envHome)
		}
	}

	for _, dir := range dirs {
		for _, ext := range searchExtensions {
			p := filepath.Join(dir, FileBaseName+ext)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
	}
	return ""
}

// envTransform converts environment variable names to config keys.
// Example: UPDATECHANGELOG_POLICY__ADVANCE_WHEN_EMPTY -> policy.advance_when_empty
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func displayPath(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}
