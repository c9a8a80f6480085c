package inv

import (
	"encoding/json"
	"fmt"

	"inv-go/internal/model"
)

// StateKey is the key the snapshot is stored under.
const StateKey = "router_inventory_app_v1"

// StateStore loads and saves the snapshot against a key-value Store.
type StateStore struct {
	store  Store
	logger Logger
}

// NewStateStore creates a StateStore over the given medium.
func NewStateStore(store Store, logger Logger) *StateStore {
	return &StateStore{store: store, logger: logger}
}

// Load reads the persisted snapshot and backfills missing fields from the
// default snapshot. A corrupt blob is logged and replaced by the default
// snapshot; a field or entry of the wrong shape is logged and dropped while
// the rest is kept. Only failures of the medium itself are returned.
func (s *StateStore) Load() (*model.Snapshot, error) {
	raw, err := s.store.Get(StateKey)
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}
	if raw == nil {
		return model.DefaultSnapshot(), nil
	}

	persisted, err := parseObject(raw)
	if err != nil {
		s.logger.Error("load state failed, starting from defaults", "error", err)
		return model.DefaultSnapshot(), nil
	}
	defTree, err := toTree(model.DefaultSnapshot())
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}

	snap := model.DefaultSnapshot()
	for _, path := range decodeSnapshot(mergeDeep(defTree, persisted), snap) {
		s.logger.Warn("dropping unreadable state value", "path", path)
	}
	normalize(snap)
	return snap, nil
}

// Save serializes the whole snapshot and overwrites the stored value.
func (s *StateStore) Save(snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := s.store.Put(StateKey, data); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

// Reset removes the stored snapshot entirely.
func (s *StateStore) Reset() error {
	if err := s.store.Delete(StateKey); err != nil {
		return fmt.Errorf("deleting state: %w", err)
	}
	return nil
}

// normalize restores the counter invariants and replaces nil sequences, so
// legacy or hand-edited data cannot put the snapshot in an invalid state.
func normalize(snap *model.Snapshot) {
	setCounter(&snap.Inventory, snap.Inventory.Capacity, snap.Inventory.Stock, inventoryFloor)
	setCounter(&snap.Cable, snap.Cable.Capacity, snap.Cable.Stock, cableFloor)
	if snap.Records == nil {
		snap.Records = []model.Record{}
	}
	if snap.Logs == nil {
		snap.Logs = []model.LogEntry{}
	}
}
