package vault

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"inv-go/internal/inv"
)

// MemoryVault is an in-memory implementation of the Vault interface.
// It keeps every backup in memory, making it useful for testing.
// This implementation is safe for concurrent use.
type MemoryVault struct {
	name    string
	backups map[string][]byte // backup name -> payload
	mu      sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:    name,
		backups: make(map[string][]byte),
	}
}

// PutBackup stores a backup under name.
func (m *MemoryVault) PutBackup(name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.backups[name] = data
	return nil
}

// GetBackup retrieves a backup by name.
func (m *MemoryVault) GetBackup(name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.backups[name]
	if !ok {
		return fmt.Errorf("backup not found: %s", name)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// ListBackups returns the stored backup names, sorted.
func (m *MemoryVault) ListBackups() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.backups))
	for name := range m.backups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryVault implements inv.Vault interface
var _ inv.Vault = (*MemoryVault)(nil)
