// Package config loads the optional CLI configuration file. Values from
// the file are defaults; flags and environment variables override them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the CLI defaults.
type Config struct {
	Token        string `yaml:"token"`
	FileURL      string `yaml:"file_url"`
	ThumbnailDir string `yaml:"thumbnail_dir"`
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "ds-copilot", "config.yaml"), nil
}

// Load reads the config file at path. A missing file yields a zero Config
// and no error; a malformed file is an error.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// MergeEnv fills empty fields from environment variables.
func (c Config) MergeEnv() Config {
	if c.Token == "" {
		c.Token = os.Getenv("FIGMA_TOKEN")
	}
	return c
}
