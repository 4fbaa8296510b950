package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const fileName = "zmapmesh.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings no command can run with.
func (c *Config) Validate() error {
	if err := c.MeshOptions().Validate(); err != nil {
		return err
	}
	if c.Tile.Width <= 0 || c.Tile.Height <= 0 {
		return fmt.Errorf("config: tile size must be positive, got %vx%v", c.Tile.Width, c.Tile.Height)
	}
	if c.Build.Workers < 1 {
		return fmt.Errorf("config: build.workers must be at least 1, got %d", c.Build.Workers)
	}
	if c.Build.QueueSize < 1 {
		return fmt.Errorf("config: build.queue_size must be at least 1, got %d", c.Build.QueueSize)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + fileName,
		filepath.Join(ConfigDir(), fileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "zmapmesh")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "zmapmesh")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "zmapmesh")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "zmapmesh")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
