package app

import (
	"time"

	"github.com/google/uuid"
)

// Operation tracks the CLI command being run. Its ID tags every log line the
// command writes, and its status is logged when the app is closed.
type Operation struct {
	ID        string
	Name      string
	StartedAt time.Time
	Status    string // "success" or "error"
}

// NewOperation creates an operation that starts at now.
func NewOperation(name string, now time.Time) *Operation {
	return &Operation{
		ID:        now.UTC().Format("20060102T150405Z") + "-" + uuid.New().String()[:8],
		Name:      name,
		StartedAt: now,
		Status:    "success",
	}
}

// Fail marks the operation as failed when err is non-nil and returns err.
func (op *Operation) Fail(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}
