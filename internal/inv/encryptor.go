package inv

import "io"

// Encryptor handles encryption of backups and unlocking for decryption.
// Encryption uses the public key only and needs no user input.
// Decryption requires a passphrase to unlock the private key, producing a
// DecryptionContext for the session.
type Encryptor interface {
	// Setup performs one-time key generation. Called during `inv config keys`.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase and returns a
	// DecryptionContext. Returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if both key files exist at configured paths.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory for the duration
// of a restore.
type DecryptionContext interface {
	// Decrypt decrypts data read from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}
