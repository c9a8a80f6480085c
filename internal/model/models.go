package model

import "time"

// LogKind classifies a LogEntry. The string values are part of the persisted layout.
type LogKind string

const (
	LogKindCounter LogKind = "inv" // counter adjustment (stock or cable)
	LogKindRecord  LogKind = "sip" // record created, edited or deleted
	LogKindSystem  LogKind = "sys" // capacity changes and other system events
)

// Counter is a bounded integer resource. 0 <= Stock <= Capacity.
type Counter struct {
	Capacity int `json:"capacity"`
	Stock    int `json:"stock"`
}

// Used returns how much of the capacity has been consumed.
func (c Counter) Used() int {
	return max(0, c.Capacity-c.Stock)
}

// Record is a uniquely numbered SIP allocation. Each live record holds one router.
type Record struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// LogEntry is an immutable audit-trail entry.
type LogEntry struct {
	ID        string    `json:"id"`
	Kind      LogKind   `json:"type"`
	Message   string    `json:"message"`
	Delta     int       `json:"delta"`
	CreatedAt time.Time `json:"createdAt"`
}

// Settings is the singleton user preference block.
type Settings struct {
	PrimaryColor    string `json:"primaryColor"`
	DarkEnabled     bool   `json:"darkEnabled"`
	PasswordEnabled bool   `json:"passwordEnabled"`
	Password        string `json:"password"` // plaintext, local gate only
}

// Meta holds bookkeeping that is not part of the inventory itself.
type Meta struct {
	LastBackupAt *time.Time `json:"lastBackupAt"`
}

// Snapshot is the complete persisted application state.
// It is the unit of persistence, export and import.
type Snapshot struct {
	Inventory Counter    `json:"inventory"` // routers
	Cable     Counter    `json:"cable"`     // meters
	Records   []Record   `json:"sips"`
	Logs      []LogEntry `json:"logs"`
	Settings  Settings   `json:"settings"`
	Meta      Meta       `json:"meta"`
}

// DefaultSnapshot returns the state of a fresh installation.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Inventory: Counter{Capacity: 50, Stock: 50},
		Cable:     Counter{Capacity: 0, Stock: 0},
		Records:   []Record{},
		Logs:      []LogEntry{},
		Settings:  Settings{PrimaryColor: "#1e3a8a"},
	}
}

// Clone returns a deep copy so callers can read state without aliasing it.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Records = append([]Record{}, s.Records...)
	c.Logs = append([]LogEntry{}, s.Logs...)
	if s.Meta.LastBackupAt != nil {
		t := *s.Meta.LastBackupAt
		c.Meta.LastBackupAt = &t
	}
	return &c
}

// FindRecord returns the index of the record with the given id, or -1.
func (s *Snapshot) FindRecord(id string) int {
	for i := range s.Records {
		if s.Records[i].ID == id {
			return i
		}
	}
	return -1
}

// HasNumber reports whether a live record other than exceptID uses number.
func (s *Snapshot) HasNumber(number, exceptID string) bool {
	for i := range s.Records {
		if s.Records[i].Number == number && s.Records[i].ID != exceptID {
			return true
		}
	}
	return false
}
