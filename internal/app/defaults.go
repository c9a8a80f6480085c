package app

import (
	"fmt"
	"os"
	"path/filepath"

	"inv-go/internal/config"
)

// Paths is the on-disk layout of an inv installation. Everything except the
// config file lives under BaseDir:
//
//	<base>/
//	  data/     state database (inv.db) or JSON store (inv.json)
//	  log/      inv.log
//	  keys/     inv.pub, inv.key (age key pair for backups)
//	  backups/  the default filesystem vault
type Paths struct {
	ConfigPath string
	BaseDir    string
	DataDir    string
	LogDir     string
	KeyDir     string
	BackupDir  string
}

// GetDefaults resolves the installation layout. INV_CONFIG_PATH overrides the
// config file (default ~/.config/inv.toml) and INV_HOME the base directory
// (default ~/.local/share/inv). The subdirectories are the ones a fresh
// config.NewConfig points at.
func GetDefaults() (*Paths, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	cfg := config.NewConfig(baseDir)
	backupDir := ""
	if len(cfg.Vaults) > 0 {
		backupDir = cfg.Vaults[0].FSVaultRoot
	}
	return &Paths{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		DataDir:    cfg.Store.DataDir,
		LogDir:     cfg.LogDir,
		KeyDir:     filepath.Dir(cfg.Encryption.PrivateKeyPath),
		BackupDir:  backupDir,
	}, nil
}

func getConfigPath() (string, error) {
	if path := os.Getenv("INV_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "inv.toml"), nil
}

func getBaseDir() (string, error) {
	if path := os.Getenv("INV_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "inv"), nil
}
