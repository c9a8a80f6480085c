package vault

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestNewFileSystemVault(t *testing.T) {
	t.Run("creates directory structure", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "vault")

		v, err := NewFileSystemVault("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "backups")); err != nil {
			t.Errorf("backups directory not created: %v", err)
		}
		if v.name != "test" {
			t.Errorf("name = %q, want %q", v.name, "test")
		}
		if err := v.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		if _, err := NewFileSystemVault("test", t.TempDir()); err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
	})
}

func TestFileSystemVault_PutBackup(t *testing.T) {
	tests := []struct {
		name    string
		backup  string
		data    string
		size    int64
		wantErr bool
	}{
		{name: "store backup successfully", backup: "b.json", data: "hello world", size: 11},
		{name: "size mismatch", backup: "b.json", data: "hello", size: 100, wantErr: true},
		{name: "empty backup", backup: "empty.json", data: "", size: 0},
		{name: "name with separator", backup: "a/b.json", data: "x", size: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewFileSystemVault("test", t.TempDir())
			if err != nil {
				t.Fatalf("NewFileSystemVault() error = %v", err)
			}

			err = v.PutBackup(tt.backup, strings.NewReader(tt.data), tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PutBackup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				names, _ := v.ListBackups()
				if len(names) != 0 {
					t.Errorf("failed PutBackup() left backups behind: %v", names)
				}
				return
			}

			var buf bytes.Buffer
			if err := v.GetBackup(tt.backup, &buf); err != nil {
				t.Fatalf("GetBackup() error = %v", err)
			}
			if buf.String() != tt.data {
				t.Errorf("GetBackup() = %q, want %q", buf.String(), tt.data)
			}
		})
	}
}

func TestFileSystemVault_GetBackupNotFound(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	var buf bytes.Buffer
	err = v.GetBackup("missing.json", &buf)
	if err == nil {
		t.Fatal("GetBackup() expected error for missing backup")
	}
	if !strings.Contains(err.Error(), "backup not found") {
		t.Errorf("GetBackup() error = %q, want 'backup not found'", err.Error())
	}
}

func TestFileSystemVault_ListBackups(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	for _, n := range []string{"router-inventory-backup-2024-01-16.json", "router-inventory-backup-2024-01-15.json"} {
		if err := v.PutBackup(n, strings.NewReader("{}"), 2); err != nil {
			t.Fatalf("PutBackup(%s) error = %v", n, err)
		}
	}
	// Stray temp files from an interrupted write are not backups
	if err := os.WriteFile(filepath.Join(root, "backups", ".tmp-123"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	names, err := v.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	want := []string{"router-inventory-backup-2024-01-15.json", "router-inventory-backup-2024-01-16.json"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ListBackups() = %v, want %v", names, want)
	}
}

func TestFileSystemVault_ValidateSetupMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if err := os.RemoveAll(root); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateSetup(); err == nil {
		t.Error("ValidateSetup() expected error after root was removed")
	}
}
