// Package config handles meshtool configuration loading and management.
package config

// Config holds all meshtool settings.
type Config struct {
	Mesh    MeshConfig    `yaml:"mesh"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// MeshConfig holds OBJ parsing settings.
type MeshConfig struct {
	Scale       float32  `yaml:"scale"`        // Uniform scale applied to vertex positions
	SearchPaths []string `yaml:"search_paths"` // Directories used to resolve relative mesh names
}

// CacheConfig holds binary cache settings.
type CacheConfig struct {
	Write  bool `yaml:"write"`  // Write sidecar cache files after parsing
	Verify bool `yaml:"verify"` // Re-read and compare cache files after writing
	Prefer bool `yaml:"prefer"` // Load from an existing cache instead of parsing
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mesh: MeshConfig{
			Scale:       1,
			SearchPaths: nil,
		},
		Cache: CacheConfig{
			Write:  false,
			Verify: true,
			Prefer: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
