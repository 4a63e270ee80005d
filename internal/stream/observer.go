package stream

//go:generate mockgen -source=observer.go -destination=mocks/mocks.go -package=mocks

import "sync"

// Observer receives notifications from an Observable.
type Observer interface {
	OnNext(value any)
	OnError(err error)
	OnCompleted()
}

// Subscription is returned by Subscribe. Dispose stops delivery to the
// observer; it is safe to call more than once.
type Subscription interface {
	Dispose()
}

// DisposeFunc adapts a function to Subscription. The function runs at most
// once.
func DisposeFunc(fn func()) Subscription {
	return &disposeOnce{fn: fn}
}

type disposeOnce struct {
	once sync.Once
	fn   func()
}

func (d *disposeOnce) Dispose() {
	d.once.Do(func() {
		if d.fn != nil {
			d.fn()
		}
	})
}

// compositeSubscription disposes every child subscription.
type compositeSubscription []Subscription

func (c compositeSubscription) Dispose() {
	for _, s := range c {
		if s != nil {
			s.Dispose()
		}
	}
}

// ObserverFuncs builds an Observer from optional callbacks.
type ObserverFuncs struct {
	Next      func(value any)
	Error     func(err error)
	Completed func()
}

// OnNext implements Observer.
func (f ObserverFuncs) OnNext(value any) {
	if f.Next != nil {
		f.Next(value)
	}
}

// OnError implements Observer.
func (f ObserverFuncs) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// OnCompleted implements Observer.
func (f ObserverFuncs) OnCompleted() {
	if f.Completed != nil {
		f.Completed()
	}
}
