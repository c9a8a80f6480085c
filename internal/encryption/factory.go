package encryption

import (
	"fmt"

	"inv-go/internal/config"
	"inv-go/internal/inv"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
// Type "none" yields a nil Encryptor: backups are stored as plain JSON.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (inv.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
