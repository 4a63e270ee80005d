// Package vtime implements virtual time for deterministic stream tests.
//
// A Scheduler owns a virtual clock (an int64 tick counter, no relation to
// wall-clock time) and a queue of actions ordered by due time. Start drains
// the queue, jumping the clock straight to each action's due time, so a
// stream that "waits" 100000 ticks plays back instantly.
//
// # Ordering
//
// Actions are ordered by (due time, logical seq). The seq comes from a
// Clock, so actions due at the same tick run in the order they were
// scheduled. No randomness, no wall-clock reads.
//
// # Scheduling in the past
//
// An action scheduled at or before Now() is due at Now()+1. This matches
// the conventional test-scheduler rule and guarantees that an action never
// runs re-entrantly inside the action that scheduled it.
//
// # Usage
//
//	s := vtime.NewScheduler()
//	s.ScheduleAbsolute(200, func() { fmt.Println("second", s.Now()) })
//	s.ScheduleAbsolute(100, func() { fmt.Println("first", s.Now()) })
//	s.Start()
//	// first 100
//	// second 200
package vtime
