package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding a config file path.
// It is used when --config is not given.
const EnvConfigPath = "MESHTOOL_CONFIG"

const (
	localConfigName = "meshtool.yaml"
	userConfigName  = "config.yaml"
)

// Load builds the effective configuration: defaults, then the config file,
// then command-line flags. An explicitly named config file must exist.
func Load() (*Config, error) {
	cfg := Default()

	if path := configSource(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configSource picks the config file: --config, then $MESHTOOL_CONFIG, then
// the first existing file in the search locations.
func configSource() string {
	if path := ConfigPath(); path != "" {
		return path
	}
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	return findConfigFile()
}

// findConfigFile returns the first existing config in the working directory
// or the user config directory, or "" if there is none.
func findConfigFile() string {
	for _, path := range []string{
		localConfigName,
		filepath.Join(ConfigDir(), userConfigName),
	} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the meshtool directory under the user config directory.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = filepath.Join(os.TempDir(), ".config")
	}
	return filepath.Join(base, "meshtool")
}

// loadFromFile merges the YAML document at path into cfg. Unknown keys are
// rejected and an empty file leaves cfg unchanged.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.Validate()
}

// Validate checks settings that yaml cannot enforce.
func (c *Config) Validate() error {
	if c.Mesh.Scale < 0 {
		return fmt.Errorf("mesh.scale must not be negative, got %v", c.Mesh.Scale)
	}
	return nil
}
