package inv

// Store is the persistent key-value medium the snapshot is written to.
// It has the semantics of browser local storage: whole values are read and
// overwritten by key, there are no partial writes.
type Store interface {
	// Get returns the value stored under key, or nil if the key is absent.
	Get(key string) ([]byte, error)

	// Put overwrites the value stored under key in a single write.
	Put(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases the underlying medium.
	Close() error
}
