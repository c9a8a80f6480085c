package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"inv-go/internal/inv"
)

// FileSystemVault is a filesystem-based implementation of the Vault interface.
// It stores backups as files in a directory structure:
//
//	<root>/
//	  backups/
//	    <name>     (one file per backup)
type FileSystemVault struct {
	name      string
	root      string
	backupDir string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	backupDir := filepath.Join(root, "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &FileSystemVault{
		name:      name,
		root:      root,
		backupDir: backupDir,
	}, nil
}

// PutBackup stores a backup under name, replacing any previous one.
func (v *FileSystemVault) PutBackup(name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}
	return v.writeFile(filepath.Join(v.backupDir, name), r, size)
}

// GetBackup retrieves a backup by name and writes it to w.
func (v *FileSystemVault) GetBackup(name string, w io.Writer) error {
	if err := validateName(name); err != nil {
		return err
	}
	return v.readFile(filepath.Join(v.backupDir, name), w, fmt.Sprintf("backup not found: %s", name))
}

// ListBackups returns the stored backup names, sorted.
func (v *FileSystemVault) ListBackups() ([]string, error) {
	entries, err := os.ReadDir(v.backupDir)
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ValidateSetup verifies that the vault directories are accessible.
func (v *FileSystemVault) ValidateSetup() error {
	for _, dir := range []string{v.root, v.backupDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (v *FileSystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Temp file in the same directory so the rename stays atomic
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// readFile reads from the specified path and writes to w.
func (v *FileSystemVault) readFile(srcPath string, w io.Writer, notFoundMsg string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s", notFoundMsg)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return nil
}

// Compile-time check that FileSystemVault implements inv.Vault interface
var _ inv.Vault = (*FileSystemVault)(nil)
