package inject

import (
	"golang.org/x/net/html"

	"github.com/roach88/cycletest/internal/stream"
	"github.com/roach88/cycletest/internal/vdom"
)

// Injectable names.
const (
	NameMockInteractions     = "mockInteractions"
	NameCallWithObservables  = "callWithObservables"
	NameCreateObservable     = "createObservable"
	NameCreateColdObservable = "createColdObservable"
	NameGetMessages          = "getMessages"
	NameGetValues            = "getValues"
	NameRender               = "render"
	NameOnNext               = "onNext"
	NameOnCompleted          = "onCompleted"
	NameOnError              = "onError"
	NameDone                 = "done"
)

// MockInteractionsFunc builds a fake interaction source from definitions.
type MockInteractionsFunc func(defs Definitions) *Interactions

// CallWithObservablesFunc calls fn with one stream per parameter name.
// Values in provided that are not streams are wrapped in a hot stream that
// emits them once.
type CallWithObservablesFunc func(fn any, params []string, provided map[string]any) (any, error)

// CreateObservableFunc creates a hot stream on the invocation's scheduler.
type CreateObservableFunc func(msgs ...stream.Notification) *stream.HotObservable

// CreateColdObservableFunc creates a cold stream on the invocation's
// scheduler. Message times are offsets from each subscription.
type CreateColdObservableFunc func(msgs ...stream.Notification) *stream.ColdObservable

// GetMessagesFunc plays a stream in virtual time and returns what an
// observer received.
type GetMessagesFunc func(s stream.Observable) []stream.Notification

// GetValuesFunc is GetMessagesFunc reduced to next payloads.
type GetValuesFunc func(s stream.Observable) []any

// RenderFunc renders a virtual node to an HTML node tree.
type RenderFunc func(n vdom.Node) (*html.Node, error)

// OnNextFunc builds a next notification.
type OnNextFunc func(time int64, value any) stream.Notification

// OnCompletedFunc builds a completed notification.
type OnCompletedFunc func(time int64) stream.Notification

// OnErrorFunc builds an error notification.
type OnErrorFunc func(time int64, err error) stream.Notification

// Done signals completion of an asynchronous test. A nil error means
// success.
type Done func(err error)
