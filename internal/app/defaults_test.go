package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("INV_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("INV_HOME", "/custom/inv")

		p, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		want := Paths{
			ConfigPath: "/custom/config.toml",
			BaseDir:    "/custom/inv",
			DataDir:    filepath.Join("/custom/inv", "data"),
			LogDir:     filepath.Join("/custom/inv", "log"),
			KeyDir:     filepath.Join("/custom/inv", "keys"),
			BackupDir:  filepath.Join("/custom/inv", "backups"),
		}
		if *p != want {
			t.Errorf("GetDefaults() = %+v, want %+v", *p, want)
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("INV_CONFIG_PATH", "")
		t.Setenv("INV_HOME", "")

		p, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		if want := filepath.Join(homeDir, ".config", "inv.toml"); p.ConfigPath != want {
			t.Errorf("ConfigPath = %q, want %q", p.ConfigPath, want)
		}
		wantBase := filepath.Join(homeDir, ".local", "share", "inv")
		if p.BaseDir != wantBase {
			t.Errorf("BaseDir = %q, want %q", p.BaseDir, wantBase)
		}
		if want := filepath.Join(wantBase, "log"); p.LogDir != want {
			t.Errorf("LogDir = %q, want %q", p.LogDir, want)
		}
	})
}
