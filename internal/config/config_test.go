package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"memorize/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg")

	cfg, err := config.Load(config.Default(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StateDir != "/tmp/xdg/memorize" {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
	if cfg.Store != config.StoreSQLite {
		t.Errorf("Store = %q", cfg.Store)
	}
	if time.Duration(cfg.SaveInterval) != 5*time.Minute {
		t.Errorf("SaveInterval = %v", time.Duration(cfg.SaveInterval))
	}
	if cfg.PanelPath() != "/tmp/xdg/memorize/memorize-stack.html" {
		t.Errorf("PanelPath = %q", cfg.PanelPath())
	}
}

func TestLoadOverlay(t *testing.T) {
	opts := map[string]any{
		"state_dir":     "/state",
		"store":         "json",
		"save_interval": "30s",
	}
	cfg, err := config.Load(config.Default(), opts)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StateDir != "/state" || cfg.Store != config.StoreJSON {
		t.Errorf("unexpected config %+v", cfg)
	}
	if time.Duration(cfg.SaveInterval) != 30*time.Second {
		t.Errorf("SaveInterval = %v", time.Duration(cfg.SaveInterval))
	}
	if cfg.HighlightPoolSize != 4 {
		t.Errorf("HighlightPoolSize = %d, want default 4", cfg.HighlightPoolSize)
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	_, err := config.Load(config.Default(), map[string]any{"store": "redis", "state_dir": "/s"})
	if err == nil {
		t.Fatal("expected an error for an unknown store")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memorize.toml")
	content := `
state_dir = "/from/toml"
store = "json"
save_interval = "1m"
highlight_pool_size = 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.StateDir != "/from/toml" || cfg.Store != config.StoreJSON || cfg.HighlightPoolSize != 2 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if time.Duration(cfg.SaveInterval) != time.Minute {
		t.Errorf("SaveInterval = %v", time.Duration(cfg.SaveInterval))
	}

	// Initialization options win over the file.
	cfg, err = config.Load(cfg, map[string]any{"store": "sqlite"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != config.StoreSQLite || cfg.StateDir != "/from/toml" {
		t.Errorf("overlay lost fields: %+v", cfg)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
