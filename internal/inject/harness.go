package inject

import (
	"reflect"
	"slices"
)

// Wrapper is a prepared test function. It is created by InjectTestingUtils
// and invoked with Call or, for functions that take "done", CallWithDone.
//
// A Wrapper may be invoked any number of times; each invocation gets its
// own scheduler and utilities.
type Wrapper struct {
	fn     reflect.Value
	params []string
	async  bool
	opts   []Option
}

// InjectTestingUtils prepares fn for injection. params lists fn's parameter
// names in order; each must name an injectable. Names are checked when the
// wrapper is invoked, so an unknown name surfaces from Call.
//
// Returns an error if fn is not a function or if len(params) does not match
// its parameter count.
func InjectTestingUtils(fn any, params ...string) (*Wrapper, error) {
	fv, err := funcValue(fn, params)
	if err != nil {
		return nil, err
	}
	return &Wrapper{
		fn:     fv,
		params: append([]string(nil), params...),
		async:  slices.Contains(params, NameDone),
	}, nil
}

// MustInjectTestingUtils is like InjectTestingUtils but panics on error.
// Intended for tests.
func MustInjectTestingUtils(fn any, params ...string) *Wrapper {
	w, err := InjectTestingUtils(fn, params...)
	if err != nil {
		panic(err)
	}
	return w
}

// WithOptions returns a copy of w that applies opts on every invocation.
func (w *Wrapper) WithOptions(opts ...Option) *Wrapper {
	cp := *w
	cp.opts = append(append([]Option(nil), w.opts...), opts...)
	return &cp
}

// Async reports whether the wrapped function takes "done".
func (w *Wrapper) Async() bool {
	return w.async
}

// Params returns the parameter names given at construction.
func (w *Wrapper) Params() []string {
	return append([]string(nil), w.params...)
}

// Call invokes a synchronous wrapper immediately and returns the function's
// first result unchanged. A trailing non-nil error result is returned as
// the error.
func (w *Wrapper) Call() (any, error) {
	if w.async {
		return nil, &Error{
			Code:    ErrCodeDoneRequired,
			Name:    NameDone,
			Message: "function takes done; use CallWithDone",
		}
	}
	reg, opts, err := w.prepare()
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("calling test function", "params", w.params)
	return invoke(w.fn, w.params, reg.resolve)
}

// CallWithDone invokes an asynchronous wrapper, injecting done. It returns
// once the function returns; the function is responsible for calling done,
// possibly later and from another goroutine.
//
// Results other than a trailing error are discarded.
func (w *Wrapper) CallWithDone(done Done) error {
	if !w.async {
		return &Error{
			Code:    ErrCodeNotAsync,
			Message: "function does not take done; use Call",
		}
	}
	reg, opts, err := w.prepare()
	if err != nil {
		return err
	}
	reg = reg.with(NameDone, reflect.ValueOf(done))
	opts.Logger.Debug("calling async test function", "params", w.params)
	_, err = invoke(w.fn, w.params, reg.resolve)
	return err
}

func (w *Wrapper) prepare() (registry, Options, error) {
	opts, err := buildOptions(w.opts)
	if err != nil {
		return registry{}, opts, err
	}
	reg := newRegistry(newToolkit(opts))
	opts.Logger.Debug("registry built", "injectables", len(reg.entries))
	return reg, opts, nil
}
