package stream

import "sync"

// Map applies fn to every value of src.
func Map(src Observable, fn func(value any) any) Observable {
	return ObservableFunc(func(o Observer) Subscription {
		return src.Subscribe(ObserverFuncs{
			Next:      func(v any) { o.OnNext(fn(v)) },
			Error:     o.OnError,
			Completed: o.OnCompleted,
		})
	})
}

// Filter forwards the values of src for which keep returns true.
func Filter(src Observable, keep func(value any) bool) Observable {
	return ObservableFunc(func(o Observer) Subscription {
		return src.Subscribe(ObserverFuncs{
			Next: func(v any) {
				if keep(v) {
					o.OnNext(v)
				}
			},
			Error:     o.OnError,
			Completed: o.OnCompleted,
		})
	})
}

// Scan emits the running accumulation of src, starting from seed.
// The accumulator is per subscription.
func Scan(src Observable, seed any, fn func(acc, value any) any) Observable {
	return ObservableFunc(func(o Observer) Subscription {
		acc := seed
		return src.Subscribe(ObserverFuncs{
			Next: func(v any) {
				acc = fn(acc, v)
				o.OnNext(acc)
			},
			Error:     o.OnError,
			Completed: o.OnCompleted,
		})
	})
}

// StartWith emits values synchronously on subscription, then mirrors src.
func StartWith(src Observable, values ...any) Observable {
	return ObservableFunc(func(o Observer) Subscription {
		for _, v := range values {
			o.OnNext(v)
		}
		return src.Subscribe(o)
	})
}

// Merge interleaves the values of all sources. It completes once every
// source has completed and errors as soon as any source errors.
func Merge(srcs ...Observable) Observable {
	return ObservableFunc(func(o Observer) Subscription {
		var mu sync.Mutex
		remaining := len(srcs)
		terminated := false

		if remaining == 0 {
			o.OnCompleted()
			return DisposeFunc(nil)
		}

		subs := make(compositeSubscription, 0, len(srcs))
		for _, src := range srcs {
			subs = append(subs, src.Subscribe(ObserverFuncs{
				Next: func(v any) {
					mu.Lock()
					done := terminated
					mu.Unlock()
					if !done {
						o.OnNext(v)
					}
				},
				Error: func(err error) {
					mu.Lock()
					if terminated {
						mu.Unlock()
						return
					}
					terminated = true
					mu.Unlock()
					o.OnError(err)
				},
				Completed: func() {
					mu.Lock()
					remaining--
					fire := remaining == 0 && !terminated
					if fire {
						terminated = true
					}
					mu.Unlock()
					if fire {
						o.OnCompleted()
					}
				},
			}))
		}
		return subs
	})
}

// Empty completes immediately on subscription.
func Empty() Observable {
	return ObservableFunc(func(o Observer) Subscription {
		o.OnCompleted()
		return DisposeFunc(nil)
	})
}

// Never emits nothing and never terminates.
func Never() Observable {
	return ObservableFunc(func(o Observer) Subscription {
		return DisposeFunc(nil)
	})
}
