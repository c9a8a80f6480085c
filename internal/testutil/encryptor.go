package testutil

import (
	"inv-go/internal/encryption"
	"inv-go/internal/inv"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() inv.Encryptor {
	return encryption.NewTestEncryptor()
}
