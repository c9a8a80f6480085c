package testutil

import (
	"testing"

	"inv-go/internal/inv"
)

// NewTestService creates a Service over a fresh in-memory store with a fixed
// clock and sequential IDs.
func NewTestService(t *testing.T) (*inv.Service, *StubClock) {
	t.Helper()
	return NewTestServiceWithStore(t, NewTestStore(t))
}

// NewTestServiceWithStore creates a Service over s with a fixed clock and
// sequential IDs.
func NewTestServiceWithStore(t *testing.T, s inv.Store) (*inv.Service, *StubClock) {
	t.Helper()

	clock := FixedClock()
	svc, err := inv.NewService(s, inv.NewNopLogger(), clock, NewStubIDGenerator())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc, clock
}
