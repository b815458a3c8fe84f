package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the standard locations
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
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Camera.YFov <= 0 || c.Camera.YFov >= 180 {
		return fmt.Errorf("camera.yfov %v out of range (0, 180)", c.Camera.YFov)
	}
	if c.Camera.Aspect <= 0 {
		return fmt.Errorf("camera.aspect must be positive, got %v", c.Camera.Aspect)
	}
	if c.Playback.FPS <= 0 {
		return fmt.Errorf("playback.fps must be positive, got %d", c.Playback.FPS)
	}
	if c.Playback.Frames < 0 {
		return fmt.Errorf("playback.frames must not be negative, got %d", c.Playback.Frames)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./gltfview.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
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
		return filepath.Join(home, "Library", "Application Support", "gltfview")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "gltfview")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "gltfview")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "gltfview")
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
