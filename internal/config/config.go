// Package config loads the codebase configuration: the resource map, the
// default-enabled names, and logging settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all codebase configuration.
type Config struct {
	// Workspace is the directory resources enumerate against. Defaults to
	// the current directory.
	Workspace string `yaml:"workspace"`

	// Resources maps resource names to their match configuration. Names are
	// hierarchical by convention ("repoMap/source", "files/docs").
	Resources map[string]ResourceConfig `yaml:"resources"`

	// DefaultEnabled lists resource names or wildcard patterns ("src/*")
	// seeding each new session's enabled set.
	DefaultEnabled []string `yaml:"default_enabled"`

	// Logging configures the categorized debug logger.
	Logging LoggingConfig `yaml:"logging"`
}

// ResourceConfig configures one named resource.
type ResourceConfig struct {
	// Type is one of fileTree, repoMap, wholeFile.
	Type string `yaml:"type"`

	// Include glob patterns; empty means every file under the workspace.
	Include []string `yaml:"include"`

	// Exclude glob patterns, applied after include.
	Exclude []string `yaml:"exclude"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
}

// validTypes are the accepted resource type spellings.
var validTypes = map[string]bool{
	"fileTree":  true,
	"repoMap":   true,
	"wholeFile": true,
}

// Default returns the default configuration: a file tree and a repo map over
// the whole workspace, both enabled.
func Default() *Config {
	return &Config{
		Workspace: ".",
		Resources: map[string]ResourceConfig{
			"fileTree/project": {Type: "fileTree"},
			"repoMap/project":  {Type: "repoMap"},
		},
		DefaultEnabled: []string{"fileTree/project", "repoMap/project"},
		Logging:        LoggingConfig{Level: "info"},
	}
}

// Load reads and validates a config file. Unset fields fall back to the
// defaults for scalars only; the resource map is taken as-is.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Workspace == "" {
		cfg.Workspace = "."
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the resource map for unknown types and empty names.
func (c *Config) Validate() error {
	if c.Workspace == "" {
		c.Workspace = "."
	}
	for name, rc := range c.Resources {
		if name == "" {
			return fmt.Errorf("resource with empty name")
		}
		if !validTypes[rc.Type] {
			return fmt.Errorf("resource %q: unknown type %q (want fileTree, repoMap, or wholeFile)", name, rc.Type)
		}
	}
	return nil
}
