package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath overrides the config file location.
const EnvPath = "ERD_CONFIG"

// Config holds erd-toolkit configuration.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Export ExportConfig `toml:"export"`
	Layout LayoutConfig `toml:"layout"`
}

// EditorConfig controls the interactive editor.
type EditorConfig struct {
	Autosave        bool   `toml:"autosave"`
	AutosaveDelayMS int    `toml:"autosave_delay_ms"`
	LastDir         string `toml:"last_dir"`
}

// ExportConfig controls image export.
type ExportConfig struct {
	Format     string  `toml:"format"` // "png", "svg", "dot"
	Scale      float64 `toml:"scale"`
	FontSize   float64 `toml:"font_size"`
	Background string  `toml:"background"`
}

// LayoutConfig overrides force-directed layout parameters. Zero keeps
// the built-in value.
type LayoutConfig struct {
	Iterations      int     `toml:"iterations"`
	IdealEdgeLength float64 `toml:"ideal_edge_length"`
	Padding         float64 `toml:"padding"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{Autosave: true, AutosaveDelayMS: 800},
		Export: ExportConfig{Format: "png", Scale: 2, FontSize: 12, Background: "#ffffff"},
	}
}

// AutosaveDelay returns the debounce delay before an automatic save.
func (c *Config) AutosaveDelay() time.Duration {
	if c.Editor.AutosaveDelayMS <= 0 {
		return 800 * time.Millisecond
	}
	return time.Duration(c.Editor.AutosaveDelayMS) * time.Millisecond
}

// ConfigDir returns the erd-toolkit config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "erd-toolkit")
}

// Path returns the config file path.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file. A missing file yields defaults; a
// malformed one yields defaults and the decode error.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
