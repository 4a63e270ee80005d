package inject

import (
	"context"
	"sync"
	"testing"
)

// Run builds a wrapper for fn and invokes it inside a test. Any harness
// error or error returned by fn fails the test.
//
// For asynchronous functions Run waits until done is called or the default
// timeout elapses. A non-nil error passed to done fails the test.
func Run(t testing.TB, fn any, params ...string) any {
	t.Helper()
	return RunWithOptions(t, nil, fn, params...)
}

// RunWithOptions is Run with explicit options.
func RunWithOptions(t testing.TB, opts []Option, fn any, params ...string) any {
	t.Helper()

	w, err := InjectTestingUtils(fn, params...)
	if err != nil {
		t.Fatalf("inject: %v", err)
		return nil
	}
	w = w.WithOptions(opts...)

	if !w.Async() {
		res, err := w.Call()
		if err != nil {
			t.Fatalf("inject: %v", err)
		}
		return res
	}

	o, err := buildOptions(w.opts)
	if err != nil {
		t.Fatalf("inject: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.Timeout)
	defer cancel()

	result := make(chan error, 1)
	var once sync.Once
	done := Done(func(err error) {
		first := false
		once.Do(func() {
			first = true
			result <- err
		})
		if !first {
			o.Logger.Warn("done called more than once; ignoring", "error", err)
		}
	})

	if err := w.CallWithDone(done); err != nil {
		t.Fatalf("inject: %v", err)
		return nil
	}

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("async test failed: %v", err)
		}
	case <-ctx.Done():
		t.Fatalf("done was not called within %s", o.Timeout)
	}
	return nil
}
