package inv

import "errors"

// Rejections. State is unchanged whenever one of these is returned.
var (
	ErrInvalidNumber     = errors.New("number must be 3 to 15 digits")
	ErrDuplicateNumber   = errors.New("number already exists")
	ErrOutOfStock        = errors.New("out of stock")
	ErrLimitExceeded     = errors.New("limit exceeded")
	ErrInvalidDelta      = errors.New("adjustment must be non-zero")
	ErrNotFound          = errors.New("not found")
	ErrNothingToDelete   = errors.New("no log entries to delete")
	ErrUnsupportedFormat = errors.New("unsupported import format: only JSON snapshots are accepted")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
	ErrWrongPassword     = errors.New("incorrect password")
	ErrDeclined          = errors.New("declined")
	ErrNoPendingRequest  = errors.New("no pending confirmation with that token")
)
