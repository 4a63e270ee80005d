package vtime

import (
	"container/heap"
	"fmt"
	"sync"
	"sync/atomic"
)

// Action is a unit of work run by the Scheduler at its due time.
type Action func()

// Task is a handle to a scheduled action.
type Task struct {
	due       int64
	seq       int64
	action    Action
	cancelled atomic.Bool
}

// Due returns the virtual time at which the task runs.
func (t *Task) Due() int64 {
	return t.due
}

// Cancel prevents the task from running. Cancelling a task that already ran
// is a no-op.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool {
	return t.cancelled.Load()
}

// Scheduler is a virtual-time scheduler for tests.
//
// Thread-safety: scheduling and clock reads are safe from any goroutine.
// Actions run outside the internal lock so they may schedule further
// actions; playback itself (Start, AdvanceTo) must not be run concurrently
// with another playback on the same scheduler.
type Scheduler struct {
	mu      sync.Mutex
	now     int64
	queue   taskHeap
	seq     *Clock
	stopped bool
}

// NewScheduler creates a scheduler whose virtual clock reads 0.
func NewScheduler() *Scheduler {
	return NewSchedulerAt(0)
}

// NewSchedulerAt creates a scheduler whose virtual clock starts at initial.
func NewSchedulerAt(initial int64) *Scheduler {
	return &Scheduler{
		now:   initial,
		queue: make(taskHeap, 0, 16),
		seq:   NewClock(),
	}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// ScheduleAbsolute schedules action at virtual time due.
// A due time at or before Now() is moved to Now()+1.
func (s *Scheduler) ScheduleAbsolute(due int64, action Action) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if due <= s.now {
		due = s.now + 1
	}

	t := &Task{
		due:    due,
		seq:    s.seq.Next(),
		action: action,
	}
	heap.Push(&s.queue, t)
	return t
}

// ScheduleRelative schedules action delay ticks after Now().
func (s *Scheduler) ScheduleRelative(delay int64, action Action) *Task {
	return s.ScheduleAbsolute(s.Now()+delay, action)
}

// Pending returns the number of queued tasks, including cancelled ones that
// have not been discarded yet.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Start runs queued tasks in (due, seq) order until the queue is empty or
// Stop is called. The clock is advanced to each task's due time before the
// task runs.
func (s *Scheduler) Start() {
	s.mu.Lock()
	s.stopped = false
	s.mu.Unlock()

	for {
		t, ok := s.next(0, false)
		if !ok {
			return
		}
		t.action()
	}
}

// AdvanceTo runs every task due at or before target, then sets the clock to
// target. Moving the clock backwards is an error.
func (s *Scheduler) AdvanceTo(target int64) error {
	s.mu.Lock()
	if target < s.now {
		now := s.now
		s.mu.Unlock()
		return fmt.Errorf("cannot advance virtual time backwards: now=%d target=%d", now, target)
	}
	s.stopped = false
	s.mu.Unlock()

	for {
		t, ok := s.next(target, true)
		if !ok {
			break
		}
		t.action()
	}

	s.mu.Lock()
	if !s.stopped && s.now < target {
		s.now = target
	}
	s.mu.Unlock()
	return nil
}

// AdvanceBy is AdvanceTo(Now()+delta).
func (s *Scheduler) AdvanceBy(delta int64) error {
	return s.AdvanceTo(s.Now() + delta)
}

// Stop makes a running Start or AdvanceTo return after the current task.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

// next pops the next runnable task and moves the clock to its due time.
// When bounded, tasks due after limit stay queued. Cancelled tasks are discarded.
func (s *Scheduler) next(limit int64, bounded bool) (*Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) > 0 {
		if s.stopped {
			return nil, false
		}
		head := s.queue[0]
		if bounded && head.due > limit {
			return nil, false
		}
		heap.Pop(&s.queue)
		if head.Cancelled() {
			continue
		}
		if head.due > s.now {
			s.now = head.due
		}
		return head, true
	}
	return nil, false
}

// taskHeap orders tasks by due time, then by logical seq.
type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(*Task))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
