// Package config handles loading and saving hc configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/hc/config.yaml
//   - State:   ~/.local/state/hc/ (session record)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	DefaultSection string `yaml:"default_section,omitempty"` // section shown after login
	CommentAuthor  string `yaml:"comment_author,omitempty"`  // overrides the session name on comments
}

// Config is the top-level configuration for hc.
type Config struct {
	// ServerURL is the helpcab API root, e.g.
	// "https://helpcab.onrender.com/api".
	ServerURL string `yaml:"server_url"`

	UI UIConfig `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults. ServerURL is
// intentionally empty: it must be supplied by the user (first-run form
// or --server flag).
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			DefaultSection: "dashboard",
		},
	}
}

// ConfigDir returns the XDG config directory for hc.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "hc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hc")
}

// StateDir returns the XDG state directory for hc.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "hc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "hc")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
