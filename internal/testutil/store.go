package testutil

import (
	"errors"
	"testing"

	"inv-go/internal/inv"
	"inv-go/internal/store"
)

// NewTestStore creates a new in-memory SQLite store with schema applied.
// The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) inv.Store {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// FailingStore wraps a Store and fails every Put once Fail is set.
type FailingStore struct {
	inv.Store
	Fail bool
}

func (s *FailingStore) Put(key string, value []byte) error {
	if s.Fail {
		return ErrStoreUnavailable
	}
	return s.Store.Put(key, value)
}

// ErrStoreUnavailable is returned by FailingStore writes.
var ErrStoreUnavailable = errors.New("store unavailable")
