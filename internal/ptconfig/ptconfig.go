// Package ptconfig loads the optional .promptscan.yml project configuration:
// extra ignore globs for batch discovery and an override list of
// additional annotation markers beyond @prompt.
package ptconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file's expected name at a repository root.
const FileName = ".promptscan.yml"

// Config is the parsed contents of .promptscan.yml. Every field is optional;
// the zero value reproduces default behavior.
type Config struct {
	// Ignore lists extra glob patterns to skip during batch discovery,
	// applied the same way as discover's .promptscanignore file.
	Ignore []string `yaml:"ignore"`
	// ExtraMarkers extends the annotation grammar beyond `@prompt`. Empty
	// by default.
	ExtraMarkers []string `yaml:"extra_markers"`
}

// Load reads and parses the config file at path. A missing file is not an
// error — it returns the zero Config, reproducing default behavior exactly.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromDir loads FileName from dir, or returns the zero Config if absent.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, FileName))
}
