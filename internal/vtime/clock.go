package vtime

import "sync/atomic"

// Clock is a monotonic logical counter used to order scheduled actions.
//
// Every action handed to a Scheduler is stamped with Next(). Two actions due
// at the same virtual time run in stamp order, which makes playback
// independent of map iteration or goroutine timing.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}
