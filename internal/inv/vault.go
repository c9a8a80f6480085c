package inv

import "io"

// Vault provides an interface for backup storage backends.
// Backups are whole exported snapshots addressed by name.
type Vault interface {
	// PutBackup stores a backup under name, replacing any previous backup with that name.
	// size is the number of bytes that will be read from r.
	PutBackup(name string, r io.Reader, size int64) error

	// GetBackup retrieves a backup by name and writes it to w.
	GetBackup(name string, w io.Writer) error

	// ListBackups returns the names of all stored backups, sorted.
	ListBackups() ([]string, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
