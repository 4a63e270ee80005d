package inject

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cycletest/internal/stream"
)

func TestInjectTestingUtils_RejectsNonFunctions(t *testing.T) {
	var nilFunc func()
	tests := []struct {
		name string
		fn   any
	}{
		{"nil", nil},
		{"struct", struct{}{}},
		{"slice", []int{}},
		{"map", map[string]any{}},
		{"int", 42},
		{"nil func", nilFunc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := InjectTestingUtils(tt.fn)
			require.Error(t, err)
			assert.Nil(t, w)
			assert.True(t, IsNotAFunction(err))
			assert.Contains(t, err.Error(), "NOT_A_FUNCTION")
		})
	}
}

func TestInjectTestingUtils_ReturnsWrapper(t *testing.T) {
	w, err := InjectTestingUtils(func() {})
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.False(t, w.Async())
	assert.Empty(t, w.Params())
}

func TestInjectTestingUtils_ArityMismatch(t *testing.T) {
	_, err := InjectTestingUtils(func(a, b any) {}, "getValues")
	require.Error(t, err)
	assert.True(t, IsArityMismatch(err))
	assert.Contains(t, err.Error(), "takes 2 parameters but 1 names were given")

	_, err = InjectTestingUtils(func(names ...string) {}, "getValues")
	require.Error(t, err)
	assert.True(t, IsArityMismatch(err))
}

func TestWrapper_CallInvokesOnce(t *testing.T) {
	calls := 0
	w := MustInjectTestingUtils(func() { calls++ })

	_, err := w.Call()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWrapper_CallReturnsResultByIdentity(t *testing.T) {
	expected := &struct{ n int }{}
	w := MustInjectTestingUtils(func() any { return expected })

	got, err := w.Call()
	require.NoError(t, err)
	assert.Same(t, expected, got)
}

func TestWrapper_CallSplitsTrailingError(t *testing.T) {
	boom := errors.New("boom")

	got, err := MustInjectTestingUtils(func() (int, error) { return 7, boom }).Call()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 7, got)

	got, err = MustInjectTestingUtils(func() error { return boom }).Call()
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)

	got, err = MustInjectTestingUtils(func() (string, error) { return "ok", nil }).Call()
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestWrapper_InjectsEveryUtility(t *testing.T) {
	w := MustInjectTestingUtils(func(
		mockInteractions MockInteractionsFunc,
		callWithObservables CallWithObservablesFunc,
		getValues GetValuesFunc,
		getMessages GetMessagesFunc,
		createObservable CreateObservableFunc,
		createColdObservable CreateColdObservableFunc,
		render RenderFunc,
		onNext OnNextFunc,
		onCompleted OnCompletedFunc,
		onError OnErrorFunc,
	) {
		assert.NotNil(t, mockInteractions)
		assert.NotNil(t, callWithObservables)
		assert.NotNil(t, getValues)
		assert.NotNil(t, getMessages)
		assert.NotNil(t, createObservable)
		assert.NotNil(t, createColdObservable)
		assert.NotNil(t, render)
		assert.NotNil(t, onNext)
		assert.NotNil(t, onCompleted)
		assert.NotNil(t, onError)
	},
		"mockInteractions", "callWithObservables", "getValues", "getMessages",
		"createObservable", "createColdObservable", "render", "onNext", "onCompleted", "onError",
	)

	_, err := w.Call()
	require.NoError(t, err)
}

func TestWrapper_AcceptsUnnamedAndInterfaceParams(t *testing.T) {
	w := MustInjectTestingUtils(func(
		onNext func(int64, any) stream.Notification,
		getValues any,
	) stream.Notification {
		_, ok := getValues.(GetValuesFunc)
		assert.True(t, ok)
		return onNext(5, "x")
	}, "onNext", "getValues")

	got, err := w.Call()
	require.NoError(t, err)
	assert.Equal(t, stream.OnNext(5, "x"), got)
}

func TestWrapper_UnknownInjectable(t *testing.T) {
	w, err := InjectTestingUtils(func(cheshireCat, theHatter any) {}, "cheshireCat", "theHatter")
	require.NoError(t, err, "names are checked at invocation")

	_, err = w.Call()
	require.Error(t, err)
	assert.True(t, IsUnknownInjectable(err))

	var ie *Error
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "cheshireCat", ie.Name)
}

func TestWrapper_TypeMismatch(t *testing.T) {
	w := MustInjectTestingUtils(func(getValues int) {}, "getValues")

	_, err := w.Call()
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
	assert.Contains(t, err.Error(), "param=getValues")
}

func TestWrapper_PassesDone(t *testing.T) {
	var received []error
	outer := Done(func(err error) { received = append(received, err) })

	var injected Done
	w := MustInjectTestingUtils(func(done Done) { injected = done }, "done")
	require.True(t, w.Async())

	require.NoError(t, w.CallWithDone(outer))
	require.NotNil(t, injected)
	assert.Equal(t, reflect.ValueOf(outer).Pointer(), reflect.ValueOf(injected).Pointer())

	boom := errors.New("boom")
	injected(boom)
	assert.Equal(t, []error{boom}, received)
}

func TestWrapper_DoneAlongsideUtilities(t *testing.T) {
	var values []any
	w := MustInjectTestingUtils(func(getValues GetValuesFunc, done Done, createObservable CreateObservableFunc) {
		values = getValues(createObservable(stream.OnNext(30, "a")))
		done(nil)
	}, "getValues", "done", "createObservable")

	called := false
	require.NoError(t, w.CallWithDone(func(err error) { called = err == nil }))
	assert.True(t, called)
	assert.Equal(t, []any{"a"}, values)
}

func TestWrapper_CallModeMismatch(t *testing.T) {
	async := MustInjectTestingUtils(func(done Done) {}, "done")
	_, err := async.Call()
	var ie *Error
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrCodeDoneRequired, ie.Code)

	sync := MustInjectTestingUtils(func() {})
	err = sync.CallWithDone(func(error) {})
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrCodeNotAsync, ie.Code)
}

func TestWrapper_FreshSchedulerPerCall(t *testing.T) {
	w := MustInjectTestingUtils(func(createObservable CreateObservableFunc, getMessages GetMessagesFunc) []stream.Notification {
		return getMessages(createObservable(stream.OnNext(50, 1), stream.OnCompleted(60)))
	}, "createObservable", "getMessages")

	first, err := w.Call()
	require.NoError(t, err)
	second, err := w.Call()
	require.NoError(t, err)

	want := []stream.Notification{stream.OnNext(50, 1), stream.OnCompleted(60)}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}

func TestWrapper_WithOptions(t *testing.T) {
	w := MustInjectTestingUtils(func(mock MockInteractionsFunc, getMessages GetMessagesFunc) []stream.Notification {
		return getMessages(mock(Definitions{"#field@input": "hi"}).Choose("#field", "input"))
	}, "mockInteractions", "getMessages")

	got, err := w.WithOptions(WithInteractionOffset(50)).Call()
	require.NoError(t, err)
	assert.Equal(t, []stream.Notification{stream.OnNext(50, "hi")}, got)

	got, err = w.Call()
	require.NoError(t, err)
	assert.Equal(t, []stream.Notification{stream.OnNext(20, "hi")}, got, "original wrapper keeps defaults")
}

func TestWrapper_InvalidTiming(t *testing.T) {
	w := MustInjectTestingUtils(func() {}).WithOptions(WithTiming(stream.Timing{Created: 10, Subscribed: 5, Disposed: 20}))

	_, err := w.Call()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscribed (5) must be after created (10)")
}

func TestInjectables(t *testing.T) {
	assert.Equal(t, []string{
		"callWithObservables",
		"createColdObservable",
		"createObservable",
		"getMessages",
		"getValues",
		"mockInteractions",
		"onCompleted",
		"onError",
		"onNext",
		"render",
	}, Injectables())
}

func TestRegistry_WithCopies(t *testing.T) {
	base := newRegistry(newToolkit(DefaultOptions()))
	extended := base.with(NameDone, reflect.ValueOf(Done(func(error) {})))

	_, ok := base.lookup(NameDone)
	assert.False(t, ok)
	_, ok = extended.lookup(NameDone)
	assert.True(t, ok)
	assert.Len(t, extended.names(), len(base.names())+1)
}
