package inject

import (
	"reflect"
	"sort"

	"github.com/roach88/cycletest/internal/stream"
)

// registry maps injectable names to provider values. It is never mutated
// after construction; with returns an extended copy.
type registry struct {
	entries map[string]reflect.Value
}

// newRegistry binds the fixed utility set to tk.
func newRegistry(tk *toolkit) registry {
	return registry{entries: map[string]reflect.Value{
		NameMockInteractions:     reflect.ValueOf(MockInteractionsFunc(tk.mockInteractions)),
		NameCallWithObservables:  reflect.ValueOf(CallWithObservablesFunc(tk.callWithObservables)),
		NameCreateObservable:     reflect.ValueOf(CreateObservableFunc(tk.createObservable)),
		NameCreateColdObservable: reflect.ValueOf(CreateColdObservableFunc(tk.createColdObservable)),
		NameGetMessages:          reflect.ValueOf(GetMessagesFunc(tk.getMessages)),
		NameGetValues:            reflect.ValueOf(GetValuesFunc(tk.getValues)),
		NameRender:               reflect.ValueOf(RenderFunc(tk.render)),
		NameOnNext:               reflect.ValueOf(OnNextFunc(stream.OnNext)),
		NameOnCompleted:          reflect.ValueOf(OnCompletedFunc(stream.OnCompleted)),
		NameOnError:              reflect.ValueOf(OnErrorFunc(stream.OnError)),
	}}
}

func (r registry) with(name string, v reflect.Value) registry {
	entries := make(map[string]reflect.Value, len(r.entries)+1)
	for k, e := range r.entries {
		entries[k] = e
	}
	entries[name] = v
	return registry{entries: entries}
}

func (r registry) lookup(name string) (reflect.Value, bool) {
	v, ok := r.entries[name]
	return v, ok
}

// names returns the registered names in sorted order.
func (r registry) names() []string {
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r registry) resolve(name string, _ reflect.Type) (reflect.Value, error) {
	v, ok := r.lookup(name)
	if !ok {
		return reflect.Value{}, newUnknownInjectableError(name)
	}
	return v, nil
}

// Injectables returns the names available to synchronous test functions,
// sorted. Asynchronous functions may additionally ask for "done".
func Injectables() []string {
	return newRegistry(newToolkit(DefaultOptions())).names()
}
