package store

import (
	"fmt"
	"os"
	"path/filepath"

	"inv-go/internal/config"
	"inv-go/internal/inv"
)

// NewStoreFromConfig creates a Store implementation based on the store config type.
func NewStoreFromConfig(cfg config.StoreConfig) (inv.Store, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite store")
		}
		if err := ensureDir(cfg.DataDir); err != nil {
			return nil, err
		}
		s, err := NewSQLiteStore(filepath.Join(cfg.DataDir, "inv.db"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case "file":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for file store")
		}
		s, err := NewFileStore(filepath.Join(cfg.DataDir, "inv.json"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
