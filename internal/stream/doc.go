// Package stream provides the mock streams used by cycletest.
//
// It is deliberately small: observers, notifications, hot and cold
// observables driven by a vtime.Scheduler, a recording observer, and the
// handful of operators that code under test typically chains onto user
// interaction streams (Map, Filter, Scan, Merge, StartWith).
//
// # Hot vs cold
//
// A HotObservable schedules its notifications at absolute virtual times when
// it is created. Observers only see notifications delivered while they are
// subscribed.
//
// A ColdObservable schedules its notifications relative to each
// subscription, so every observer sees the full sequence.
//
// # Materialization
//
// StartWithTiming creates, subscribes and disposes a stream at fixed virtual
// times, runs the scheduler, and returns a Recorder holding every
// notification in virtual-time order:
//
//	s := vtime.NewScheduler()
//	src := stream.NewHotObservable(s,
//	    stream.OnNext(200, "b"),
//	    stream.OnNext(100, "a"),
//	)
//	rec := stream.StartWithTiming(s, func() stream.Observable { return src }, stream.DefaultTiming)
//	stream.Values(rec.Messages()) // ["a", "b"]
package stream
