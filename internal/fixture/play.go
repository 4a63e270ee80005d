package fixture

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/cycletest/internal/inject"
	"github.com/roach88/cycletest/internal/snapshot"
	"github.com/roach88/cycletest/internal/stream"
	"github.com/roach88/cycletest/internal/vdom"
)

// Result is the outcome of playing a fixture.
type Result struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`

	// Streams maps stream name to what the observer received.
	Streams map[string][]stream.Notification `json:"-"`

	// HTML is the rendered view, empty when the fixture has none.
	HTML string `json:"html,omitempty"`

	Errors []string `json:"errors,omitempty"`
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Stream   string
	Expected string
	Actual   string
	Messages []stream.Notification
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s on %s\n", e.Type, e.Stream)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if len(e.Messages) > 0 {
		fmt.Fprintf(&buf, "\nRecorded:\n")
		for i, m := range e.Messages {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, m)
		}
	}
	return buf.String()
}

// Play validates f, plays every stream on its own virtual scheduler,
// renders the view and evaluates the assertions.
//
// Failed assertions are reported in Result.Errors; the returned error is
// reserved for fixtures that cannot be played at all.
func Play(f *Fixture, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := Validate(f); err != nil {
		return nil, err
	}

	timing := f.timing()
	result := &Result{
		Name:    f.Name,
		Streams: make(map[string][]stream.Notification, len(f.Streams)),
	}

	for _, def := range f.Streams {
		msgs, err := playStream(def, timing, logger)
		if err != nil {
			return nil, fmt.Errorf("play %s: %w", def.Name, err)
		}
		logger.Debug("stream played", "fixture", f.Name, "stream", def.Name, "messages", len(msgs))
		result.Streams[def.Name] = msgs
	}

	if f.View != nil {
		html, err := vdom.RenderString(*f.View)
		if err != nil {
			return nil, fmt.Errorf("render view: %w", err)
		}
		result.HTML = html
	}

	for _, err := range Check(f, result.Streams) {
		result.Errors = append(result.Errors, err.Error())
	}
	result.Pass = len(result.Errors) == 0
	return result, nil
}

// playStream materializes one stream through the injection harness, which
// gives it a fresh scheduler.
func playStream(def StreamDef, timing stream.Timing, logger *slog.Logger) ([]stream.Notification, error) {
	msgs, err := def.Notifications()
	if err != nil {
		return nil, err
	}

	w, err := inject.InjectTestingUtils(func(
		createObservable inject.CreateObservableFunc,
		createColdObservable inject.CreateColdObservableFunc,
		getMessages inject.GetMessagesFunc,
	) []stream.Notification {
		if def.Kind == KindCold {
			return getMessages(createColdObservable(msgs...))
		}
		return getMessages(createObservable(msgs...))
	}, inject.NameCreateObservable, inject.NameCreateColdObservable, inject.NameGetMessages)
	if err != nil {
		return nil, err
	}

	res, err := w.WithOptions(inject.WithTiming(timing), inject.WithLogger(logger)).Call()
	if err != nil {
		return nil, err
	}
	return res.([]stream.Notification), nil
}

// Check evaluates f's assertions against recorded streams.
func Check(f *Fixture, streams map[string][]stream.Notification) []error {
	var errs []error
	for _, a := range f.Assertions {
		if err := check(a, streams[a.Stream]); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func check(a Assertion, msgs []stream.Notification) error {
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Stream: a.Stream, Expected: expected, Actual: actual, Messages: msgs}
	}

	switch a.Type {
	case AssertValues:
		want, err := snapshot.MarshalCanonical(a.Values)
		if err != nil {
			return fmt.Errorf("values assertion on %s: %w", a.Stream, err)
		}
		got, err := snapshot.MarshalCanonical(stream.Values(msgs))
		if err != nil {
			return fmt.Errorf("values assertion on %s: %w", a.Stream, err)
		}
		if !bytes.Equal(want, got) {
			return fail("values "+string(want), "values "+string(got))
		}

	case AssertMessageCount:
		if len(msgs) != a.Count {
			return fail(fmt.Sprintf("%d messages", a.Count), fmt.Sprintf("%d messages", len(msgs)))
		}

	case AssertCompletes:
		last, ok := lastMessage(msgs)
		if !ok || last.Kind != stream.KindCompleted {
			return fail("stream completes", "stream did not complete")
		}
		if a.At != 0 && last.Time != a.At {
			return fail(fmt.Sprintf("completion at %d", a.At), fmt.Sprintf("completion at %d", last.Time))
		}

	case AssertErrors:
		last, ok := lastMessage(msgs)
		if !ok || last.Kind != stream.KindError {
			return fail("stream errors", "stream did not error")
		}
		if a.Message != "" && (last.Err == nil || last.Err.Error() != a.Message) {
			return fail(fmt.Sprintf("error %q", a.Message), fmt.Sprintf("error %q", last.Err))
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func lastMessage(msgs []stream.Notification) (stream.Notification, bool) {
	if len(msgs) == 0 {
		return stream.Notification{}, false
	}
	return msgs[len(msgs)-1], true
}
