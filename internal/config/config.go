package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "memorize"

// Supported persistence backends.
const (
	StoreSQLite = "sqlite"
	StoreJSON   = "json"
)

type Config struct {
	StateDir          string   `json:"state_dir"           toml:"state_dir"`
	Store             string   `json:"store"               toml:"store"`
	SaveInterval      Duration `json:"save_interval"       toml:"save_interval"`
	HighlightPoolSize int      `json:"highlight_pool_size" toml:"highlight_pool_size"`
	PanelFile         string   `json:"panel_file"          toml:"panel_file"`
}

var defaultConfig = Config{
	Store:             StoreSQLite,
	SaveInterval:      Duration(5 * time.Minute),
	HighlightPoolSize: 4,
	PanelFile:         "memorize-stack.html",
}

// Default returns the default configuration.
func Default() Config {
	return defaultConfig
}

// Load overlays v, typically the LSP initialization options, onto base.
// Only fields present in v overwrite.
func Load(base Config, v any) (Config, error) {
	cfg := base
	if v == nil {
		return cfg.withDefaults()
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}

	return cfg.withDefaults()
}

// LoadFile reads a TOML config file on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := defaultConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse error in %s: %w", path, err)
	}

	return cfg, nil
}

// withDefaults fills in what the user left empty and checks the rest.
func (c Config) withDefaults() (Config, error) {
	if c.StateDir == "" {
		dir, err := stateHome()
		if err != nil {
			return Config{}, err
		}
		c.StateDir = dir
	}
	if c.Store == "" {
		c.Store = defaultConfig.Store
	}
	if c.Store != StoreSQLite && c.Store != StoreJSON {
		return Config{}, fmt.Errorf("unknown store %q", c.Store)
	}
	if c.HighlightPoolSize <= 0 {
		c.HighlightPoolSize = defaultConfig.HighlightPoolSize
	}
	if c.PanelFile == "" {
		c.PanelFile = defaultConfig.PanelFile
	}
	return c, nil
}

// PanelPath is where the rendered stack panel is written.
func (c Config) PanelPath() string {
	return filepath.Join(c.StateDir, c.PanelFile)
}

func stateHome() (string, error) {
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		xdgStateHome = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(xdgStateHome, appName), nil
}

// Duration is a time.Duration written as "5m" in JSON and TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}
