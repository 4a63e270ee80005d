package inject

import (
	"strings"
	"sync"

	"github.com/roach88/cycletest/internal/stream"
)

// Definitions maps "selector@event" keys to either a stream.Observable or a
// plain value. Plain values become hot streams that emit them once.
type Definitions map[string]any

// Interactions is a fake interaction source. Choose returns the stream for
// a (selector, event) pair, creating an empty hot stream on first use.
//
// Thread-safety: safe for concurrent use.
type Interactions struct {
	mu     sync.Mutex
	events map[string]map[string]stream.Observable
	empty  func() stream.Observable
}

func newInteractions(empty func() stream.Observable) *Interactions {
	return &Interactions{
		events: make(map[string]map[string]stream.Observable),
		empty:  empty,
	}
}

// splitKey splits "selector@event" at the first '@'. A key without '@'
// yields an empty event.
func splitKey(key string) (selector, event string) {
	selector, event, _ = strings.Cut(key, "@")
	return selector, event
}

func (in *Interactions) set(selector, event string, s stream.Observable) {
	in.mu.Lock()
	defer in.mu.Unlock()
	bySel, ok := in.events[selector]
	if !ok {
		bySel = make(map[string]stream.Observable)
		in.events[selector] = bySel
	}
	bySel[event] = s
}

// Choose returns the stream registered for selector and event. Repeated
// calls with the same pair return the same instance.
func (in *Interactions) Choose(selector, event string) stream.Observable {
	in.mu.Lock()
	defer in.mu.Unlock()

	bySel, ok := in.events[selector]
	if !ok {
		bySel = make(map[string]stream.Observable)
		in.events[selector] = bySel
	}
	s, ok := bySel[event]
	if !ok {
		s = in.empty()
		bySel[event] = s
	}
	return s
}

// Len returns the number of registered (selector, event) pairs.
func (in *Interactions) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	n := 0
	for _, bySel := range in.events {
		n += len(bySel)
	}
	return n
}
