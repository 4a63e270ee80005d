package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/roach88/cycletest/internal/stream"
)

// ErrRunNotFound is returned by ReadRun for unknown IDs.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded playback of a fixture.
type Run struct {
	ID      string
	Fixture string
	Pass    bool

	// Seq is assigned by the store on write. It is zero on runs that have
	// not been written.
	Seq int64

	Errors  []string
	Streams map[string][]stream.Notification
}

// RunSummary is a Run without its messages.
type RunSummary struct {
	ID       string `json:"id"`
	Fixture  string `json:"fixture"`
	Pass     bool   `json:"pass"`
	Seq      int64  `json:"seq"`
	Messages int    `json:"messages"`
}

// NewRunID returns a new UUIDv7 run identifier. UUIDv7 IDs sort by
// creation order.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}
