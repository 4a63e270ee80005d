package stream

import (
	"math"
	"sync"

	"github.com/roach88/cycletest/internal/vtime"
)

// Observable is a source of notifications.
type Observable interface {
	Subscribe(o Observer) Subscription
}

// ObservableFunc adapts a subscribe function to Observable.
type ObservableFunc func(o Observer) Subscription

// Subscribe implements Observable.
func (f ObservableFunc) Subscribe(o Observer) Subscription {
	return f(o)
}

// Infinite marks a subscription that was never disposed.
const Infinite int64 = math.MaxInt64

// SubscriptionLog records when an observer subscribed to and unsubscribed
// from a mock stream, in virtual time.
type SubscriptionLog struct {
	Subscribe   int64
	Unsubscribe int64
}

// subscriptionLogger tracks subscription intervals for a mock stream.
type subscriptionLogger struct {
	mu   sync.Mutex
	logs []SubscriptionLog
}

// open appends a new open interval and returns its index.
func (l *subscriptionLogger) open(at int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, SubscriptionLog{Subscribe: at, Unsubscribe: Infinite})
	return len(l.logs) - 1
}

func (l *subscriptionLogger) close(idx int, at int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs[idx].Unsubscribe = at
}

func (l *subscriptionLogger) snapshot() []SubscriptionLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]SubscriptionLog, len(l.logs))
	copy(out, l.logs)
	return out
}

// HotObservable emits scripted notifications at absolute virtual times,
// regardless of who is subscribed.
//
// Thread-safety: Subscribe and Dispose may be called from any goroutine.
type HotObservable struct {
	sched    *vtime.Scheduler
	messages []Notification

	mu        sync.Mutex
	observers []hotEntry
	nextID    int64
	log       subscriptionLogger
}

type hotEntry struct {
	id       int64
	observer Observer
}

// NewHotObservable creates a hot stream and schedules each message at its
// Time on s. With no messages the stream never emits.
func NewHotObservable(s *vtime.Scheduler, msgs ...Notification) *HotObservable {
	h := &HotObservable{
		sched:    s,
		messages: append([]Notification(nil), msgs...),
	}
	for _, m := range h.messages {
		m := m
		s.ScheduleAbsolute(m.Time, func() {
			for _, o := range h.current() {
				m.Accept(o)
			}
		})
	}
	return h
}

// current returns a copy of the observer list in subscription order.
func (h *HotObservable) current() []Observer {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Observer, len(h.observers))
	for i, e := range h.observers {
		out[i] = e.observer
	}
	return out
}

// Subscribe implements Observable.
func (h *HotObservable) Subscribe(o Observer) Subscription {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.observers = append(h.observers, hotEntry{id: id, observer: o})
	h.mu.Unlock()

	idx := h.log.open(h.sched.Now())

	return DisposeFunc(func() {
		h.log.close(idx, h.sched.Now())

		h.mu.Lock()
		defer h.mu.Unlock()
		for i, e := range h.observers {
			if e.id == id {
				h.observers = append(h.observers[:i], h.observers[i+1:]...)
				return
			}
		}
	})
}

// Messages returns the scripted notifications.
func (h *HotObservable) Messages() []Notification {
	return append([]Notification(nil), h.messages...)
}

// Subscriptions returns the subscribe/unsubscribe history.
func (h *HotObservable) Subscriptions() []SubscriptionLog {
	return h.log.snapshot()
}

// ColdObservable replays scripted notifications relative to each
// subscription.
type ColdObservable struct {
	sched    *vtime.Scheduler
	messages []Notification
	log      subscriptionLogger
}

// NewColdObservable creates a cold stream. Message times are offsets from
// the moment of subscription.
func NewColdObservable(s *vtime.Scheduler, msgs ...Notification) *ColdObservable {
	return &ColdObservable{
		sched:    s,
		messages: append([]Notification(nil), msgs...),
	}
}

// Subscribe implements Observable.
func (c *ColdObservable) Subscribe(o Observer) Subscription {
	idx := c.log.open(c.sched.Now())

	tasks := make([]*vtime.Task, 0, len(c.messages))
	for _, m := range c.messages {
		m := m
		tasks = append(tasks, c.sched.ScheduleRelative(m.Time, func() {
			m.Accept(o)
		}))
	}

	return DisposeFunc(func() {
		c.log.close(idx, c.sched.Now())
		for _, t := range tasks {
			t.Cancel()
		}
	})
}

// Messages returns the scripted notifications.
func (c *ColdObservable) Messages() []Notification {
	return append([]Notification(nil), c.messages...)
}

// Subscriptions returns the subscribe/unsubscribe history.
func (c *ColdObservable) Subscriptions() []SubscriptionLog {
	return c.log.snapshot()
}
