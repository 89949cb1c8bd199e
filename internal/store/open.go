package store

import (
	"fmt"
	"os"
	"path/filepath"

	"memorize/internal/config"
)

// Open creates the store selected by cfg inside its state directory.
func Open(cfg config.Config) (Store, error) {
	if err := os.MkdirAll(cfg.StateDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	switch cfg.Store {
	case config.StoreSQLite:
		return NewSQLiteStore(filepath.Join(cfg.StateDir, "stacks.db"))
	case config.StoreJSON:
		return NewJSONStore(filepath.Join(cfg.StateDir, "stacks.json"))
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
