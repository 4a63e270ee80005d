package stream

import (
	"fmt"
	"sync"

	"github.com/roach88/cycletest/internal/vtime"
)

// Timing holds the virtual times at which StartWithTiming creates,
// subscribes to and disposes the stream under test.
type Timing struct {
	Created    int64 `yaml:"created" json:"created"`
	Subscribed int64 `yaml:"subscribed" json:"subscribed"`
	Disposed   int64 `yaml:"disposed" json:"disposed"`
}

// DefaultTiming creates at 1, subscribes at 10 and disposes at 100000.
var DefaultTiming = Timing{Created: 1, Subscribed: 10, Disposed: 100000}

// Validate checks that the three instants are strictly increasing and
// positive.
func (t Timing) Validate() error {
	if t.Created <= 0 {
		return fmt.Errorf("timing: created must be positive, got %d", t.Created)
	}
	if t.Subscribed <= t.Created {
		return fmt.Errorf("timing: subscribed (%d) must be after created (%d)", t.Subscribed, t.Created)
	}
	if t.Disposed <= t.Subscribed {
		return fmt.Errorf("timing: disposed (%d) must be after subscribed (%d)", t.Disposed, t.Subscribed)
	}
	return nil
}

// Recorder is an Observer that stamps every notification with the
// scheduler's current virtual time.
//
// Thread-safety: safe for concurrent use.
type Recorder struct {
	sched *vtime.Scheduler

	mu       sync.Mutex
	messages []Notification
}

// NewRecorder creates a recorder bound to s.
func NewRecorder(s *vtime.Scheduler) *Recorder {
	return &Recorder{sched: s}
}

// OnNext implements Observer.
func (r *Recorder) OnNext(value any) {
	r.record(OnNext(r.sched.Now(), value))
}

// OnError implements Observer.
func (r *Recorder) OnError(err error) {
	r.record(OnError(r.sched.Now(), err))
}

// OnCompleted implements Observer.
func (r *Recorder) OnCompleted() {
	r.record(OnCompleted(r.sched.Now()))
}

func (r *Recorder) record(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, n)
}

// Messages returns the recorded notifications in virtual-time order.
// The returned slice is never nil.
func (r *Recorder) Messages() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return SortByTime(r.messages)
}

// Values returns the payloads of the recorded next notifications.
func (r *Recorder) Values() []any {
	return Values(r.Messages())
}

// StartWithTiming plays a stream on s and records what an observer sees.
//
// At timing.Created the create function builds the stream, at
// timing.Subscribed a Recorder subscribes, and at timing.Disposed the
// subscription is disposed. The scheduler then runs until its queue is
// empty.
func StartWithTiming(s *vtime.Scheduler, create func() Observable, timing Timing) *Recorder {
	rec := NewRecorder(s)

	var source Observable
	var sub Subscription

	s.ScheduleAbsolute(timing.Created, func() {
		source = create()
	})
	s.ScheduleAbsolute(timing.Subscribed, func() {
		if source != nil {
			sub = source.Subscribe(rec)
		}
	})
	s.ScheduleAbsolute(timing.Disposed, func() {
		if sub != nil {
			sub.Dispose()
		}
	})

	s.Start()
	return rec
}

// Start is StartWithTiming with DefaultTiming.
func Start(s *vtime.Scheduler, create func() Observable) *Recorder {
	return StartWithTiming(s, create, DefaultTiming)
}
