package inv

import (
	"fmt"

	"inv-go/internal/model"
)

// Capacity floors per counter.
const (
	inventoryFloor = 1
	cableFloor     = 0
)

// StockLevel is the warning level shown for a counter.
type StockLevel string

const (
	LevelOK       StockLevel = "ok"
	LevelLow      StockLevel = "low"
	LevelCritical StockLevel = "critical"
)

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// setCounter floors capacity at floor and clamps stock into [0, capacity].
func setCounter(c *model.Counter, capacity, stock, floor int) {
	c.Capacity = max(floor, capacity)
	c.Stock = clamp(stock, 0, c.Capacity)
}

// adjustCounter moves stock by delta within bounds and returns the delta actually applied.
// The bounds are checked as headroom so that extreme deltas cannot overflow.
func adjustCounter(c *model.Counter, delta int) int {
	before := c.Stock
	switch {
	case delta > max(0, c.Capacity)-before:
		c.Stock = max(0, c.Capacity)
	case delta < -before:
		c.Stock = 0
	default:
		c.Stock = before + delta
	}
	return c.Stock - before
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

// SetInventory sets the router capacity and stock. Out-of-range input is
// clamped rather than rejected.
func (s *Service) SetInventory(capacity, stock int) (model.Counter, error) {
	err := s.mutate(func(snap *model.Snapshot) error {
		setCounter(&snap.Inventory, capacity, stock, inventoryFloor)
		s.appendLog(snap, model.LogKindSystem,
			fmt.Sprintf("capacity set to %d, stock set to %d", snap.Inventory.Capacity, snap.Inventory.Stock), 0)
		return nil
	})
	if err != nil {
		return model.Counter{}, err
	}
	s.logger.Info("inventory set", "capacity", s.snap.Inventory.Capacity, "stock", s.snap.Inventory.Stock)
	return s.snap.Inventory, nil
}

// SetCable sets the cable capacity and stock in meters.
func (s *Service) SetCable(capacity, stock int) (model.Counter, error) {
	err := s.mutate(func(snap *model.Snapshot) error {
		setCounter(&snap.Cable, capacity, stock, cableFloor)
		s.appendLog(snap, model.LogKindSystem,
			fmt.Sprintf("cable capacity set to %dm, stock set to %dm", snap.Cable.Capacity, snap.Cable.Stock), 0)
		return nil
	})
	if err != nil {
		return model.Counter{}, err
	}
	s.logger.Info("cable set", "capacity", s.snap.Cable.Capacity, "stock", s.snap.Cable.Stock)
	return s.snap.Cable, nil
}

// AdjustStock moves router stock by delta, clamped to [0, capacity], and
// returns the applied delta. An adjustment fully absorbed by a bound is
// rejected with ErrLimitExceeded.
func (s *Service) AdjustStock(delta int, reason string) (int, error) {
	if reason == "" {
		reason = "manual adjustment"
	}
	return s.adjust(delta, func(snap *model.Snapshot) *model.Counter { return &snap.Inventory }, reason, "")
}

// AdjustCable moves cable stock by delta meters; see AdjustStock.
func (s *Service) AdjustCable(delta int, reason string) (int, error) {
	if reason == "" {
		reason = "cable adjustment"
	}
	return s.adjust(delta, func(snap *model.Snapshot) *model.Counter { return &snap.Cable }, reason, "m")
}

func (s *Service) adjust(delta int, counter func(*model.Snapshot) *model.Counter, reason, unit string) (int, error) {
	if delta == 0 {
		return 0, ErrInvalidDelta
	}
	var applied int
	err := s.mutate(func(snap *model.Snapshot) error {
		applied = adjustCounter(counter(snap), delta)
		if applied == 0 {
			return fmt.Errorf("%w: cannot apply %s", ErrLimitExceeded, signed(delta))
		}
		s.appendLog(snap, model.LogKindCounter, fmt.Sprintf("%s: %s%s", reason, signed(applied), unit), applied)
		return nil
	})
	if err != nil {
		s.logger.Warn("adjustment rejected", "delta", delta, "error", err)
		return 0, err
	}
	s.logger.Info("stock adjusted", "requested", delta, "applied", applied, "reason", reason)
	return applied, nil
}

// consumeOne takes one router out of stock for a new record.
func (s *Service) consumeOne(snap *model.Snapshot) bool {
	if snap.Inventory.Stock <= 0 {
		return false
	}
	snap.Inventory.Stock--
	s.appendLog(snap, model.LogKindCounter, "1 router consumed by SIP", -1)
	return true
}

// InventoryLevel classifies router stock: critical at 5 or less, low at 10 or less.
func InventoryLevel(c model.Counter) StockLevel {
	switch {
	case c.Stock <= 5:
		return LevelCritical
	case c.Stock <= 10:
		return LevelLow
	default:
		return LevelOK
	}
}

// CableLevel classifies cable stock: critical at 20m or less, low at 50m or less.
func CableLevel(c model.Counter) StockLevel {
	switch {
	case c.Stock <= 20:
		return LevelCritical
	case c.Stock <= 50:
		return LevelLow
	default:
		return LevelOK
	}
}
