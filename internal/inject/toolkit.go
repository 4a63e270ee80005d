package inject

import (
	"log/slog"
	"reflect"

	"golang.org/x/net/html"

	"github.com/roach88/cycletest/internal/stream"
	"github.com/roach88/cycletest/internal/vdom"
	"github.com/roach88/cycletest/internal/vtime"
)

// toolkit holds the state shared by one invocation's utilities.
type toolkit struct {
	sched  *vtime.Scheduler
	opts   Options
	logger *slog.Logger
}

func newToolkit(opts Options) *toolkit {
	return &toolkit{
		sched:  vtime.NewScheduler(),
		opts:   opts,
		logger: opts.Logger,
	}
}

func (tk *toolkit) createObservable(msgs ...stream.Notification) *stream.HotObservable {
	return stream.NewHotObservable(tk.sched, msgs...)
}

func (tk *toolkit) createColdObservable(msgs ...stream.Notification) *stream.ColdObservable {
	return stream.NewColdObservable(tk.sched, msgs...)
}

// emitOnce wraps v in a stream. Observables pass through.
func (tk *toolkit) emitOnce(at int64, v any) stream.Observable {
	if obs, ok := v.(stream.Observable); ok {
		return obs
	}
	return tk.createObservable(stream.OnNext(at, v))
}

func (tk *toolkit) mockInteractions(defs Definitions) *Interactions {
	in := newInteractions(func() stream.Observable { return tk.createObservable() })
	for key, v := range defs {
		selector, event := splitKey(key)
		in.set(selector, event, tk.emitOnce(tk.opts.InteractionOffset, v))
	}
	tk.logger.Debug("mock interactions created", "definitions", len(defs))
	return in
}

func (tk *toolkit) callWithObservables(fn any, params []string, provided map[string]any) (any, error) {
	fv, err := funcValue(fn, params)
	if err != nil {
		return nil, err
	}

	args := make(map[string]stream.Observable, len(provided))
	for name, v := range provided {
		args[name] = tk.emitOnce(tk.opts.ArgumentOffset, v)
	}

	return invoke(fv, params, func(name string, _ reflect.Type) (reflect.Value, error) {
		obs, ok := args[name]
		if !ok {
			obs = tk.createObservable()
		}
		return reflect.ValueOf(obs), nil
	})
}

func (tk *toolkit) getMessages(s stream.Observable) []stream.Notification {
	rec := stream.StartWithTiming(tk.sched, func() stream.Observable { return s }, tk.opts.Timing)
	msgs := rec.Messages()
	tk.logger.Debug("stream materialized", "messages", len(msgs), "now", tk.sched.Now())
	return msgs
}

func (tk *toolkit) getValues(s stream.Observable) []any {
	return stream.Values(tk.getMessages(s))
}

func (tk *toolkit) render(n vdom.Node) (*html.Node, error) {
	return vdom.Render(n)
}
