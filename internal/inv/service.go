package inv

import (
	"fmt"

	"inv-go/internal/model"
)

// Service owns the single in-memory snapshot and is the only component that
// mutates it. Every mutation runs validate → mutate → log → persist on a copy
// of the snapshot; the copy replaces the live snapshot only once it has been
// saved, so a rejected or failed operation leaves state untouched.
type Service struct {
	state  *StateStore
	snap   *model.Snapshot
	logger Logger
	clock  Clock
	idgen  IDGenerator
}

// NewService loads the snapshot from store and returns a Service over it.
func NewService(store Store, logger Logger, clock Clock, idgen IDGenerator) (*Service, error) {
	state := NewStateStore(store, logger)
	snap, err := state.Load()
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	return &Service{
		state:  state,
		snap:   snap,
		logger: logger,
		clock:  clock,
		idgen:  idgen,
	}, nil
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() *model.Snapshot {
	return s.snap.Clone()
}

// Inventory returns the router counter.
func (s *Service) Inventory() model.Counter { return s.snap.Inventory }

// Cable returns the cable counter.
func (s *Service) Cable() model.Counter { return s.snap.Cable }

// Reset wipes the persisted state and starts over from the default snapshot.
func (s *Service) Reset() error {
	if err := s.state.Reset(); err != nil {
		return err
	}
	s.snap = model.DefaultSnapshot()
	s.logger.Info("state reset")
	return nil
}

// mutate applies fn to a copy of the snapshot and persists it. If fn returns
// an error nothing is saved and the live snapshot is unchanged.
func (s *Service) mutate(fn func(snap *model.Snapshot) error) error {
	next := s.snap.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.state.Save(next); err != nil {
		return fmt.Errorf("persisting state: %w", err)
	}
	s.snap = next
	return nil
}

// appendLog appends a new entry to snap's event log.
func (s *Service) appendLog(snap *model.Snapshot, kind model.LogKind, message string, delta int) {
	snap.Logs = append(snap.Logs, model.LogEntry{
		ID:        s.idgen.New(),
		Kind:      kind,
		Message:   message,
		Delta:     delta,
		CreatedAt: s.clock.Now(),
	})
}
