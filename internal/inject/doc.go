// Package inject wires named testing utilities into test functions.
//
// Go does not keep parameter names at run time, so callers list them
// explicitly, in positional order:
//
//	w, err := inject.InjectTestingUtils(func(
//		mock inject.MockInteractionsFunc,
//		getValues inject.GetValuesFunc,
//	) []any {
//		clicks := mock(inject.Definitions{".inc@click": 1}).Choose(".inc", "click")
//		return getValues(clicks)
//	}, "mockInteractions", "getValues")
//
// Each name is looked up in a registry of utilities bound to a fresh
// virtual-time scheduler. A function that asks for "done" is asynchronous
// and must be started with CallWithDone.
//
// Every Call builds a new scheduler, registry and interaction map. Nothing
// is shared between invocations.
package inject
