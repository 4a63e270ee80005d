// Package fixture loads declarative stream fixtures and plays them through
// the injection harness.
//
// A fixture names a set of mock streams with scripted notifications, an
// optional view tree, and assertions over what an observer receives when
// each stream is played in virtual time. Fixtures are written in YAML or
// CUE.
package fixture

import (
	"errors"
	"fmt"

	"github.com/roach88/cycletest/internal/stream"
	"github.com/roach88/cycletest/internal/vdom"
)

// Fixture is a declarative playback scenario.
type Fixture struct {
	// Name uniquely identifies this fixture. Golden files are keyed by it.
	Name string `yaml:"name" json:"name"`

	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Timing overrides the create/subscribe/dispose instants.
	// Defaults to stream.DefaultTiming.
	Timing *stream.Timing `yaml:"timing,omitempty" json:"timing,omitempty"`

	Streams []StreamDef `yaml:"streams" json:"streams"`

	// View is rendered to HTML when present.
	View *vdom.Node `yaml:"view,omitempty" json:"view,omitempty"`

	Assertions []Assertion `yaml:"assertions,omitempty" json:"assertions,omitempty"`

	// Path is the file the fixture was loaded from, if any.
	Path string `yaml:"-" json:"-"`
}

// Stream kinds.
const (
	KindHot  = "hot"
	KindCold = "cold"
)

// StreamDef declares one mock stream.
type StreamDef struct {
	Name string `yaml:"name" json:"name"`

	// Kind is "hot" (absolute times, the default) or "cold" (times relative
	// to subscription).
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`

	Messages []MessageDef `yaml:"messages" json:"messages"`
}

// MessageDef is one scripted notification.
type MessageDef struct {
	Time int64 `yaml:"time" json:"time"`

	// Kind is next (default), completed or error.
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`

	Value any `yaml:"value,omitempty" json:"value,omitempty"`

	// Error is the message of an error notification.
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Assertion checks a played stream.
type Assertion struct {
	// Type is one of values, message_count, completes, errors.
	Type string `yaml:"type" json:"type"`

	Stream string `yaml:"stream" json:"stream"`

	// Values is the expected list of next payloads (values).
	Values []any `yaml:"values,omitempty" json:"values,omitempty"`

	// Count is the expected number of notifications (message_count).
	Count int `yaml:"count,omitempty" json:"count,omitempty"`

	// At is the expected completion time (completes). Zero accepts any time.
	At int64 `yaml:"at,omitempty" json:"at,omitempty"`

	// Message is the expected error text (errors). Empty accepts any error.
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Assertion type constants.
const (
	AssertValues       = "values"
	AssertMessageCount = "message_count"
	AssertCompletes    = "completes"
	AssertErrors       = "errors"
)

// timing returns the effective playback timing.
func (f *Fixture) timing() stream.Timing {
	if f.Timing != nil {
		return *f.Timing
	}
	return stream.DefaultTiming
}

// Stream returns the stream definition with the given name.
func (f *Fixture) Stream(name string) (StreamDef, bool) {
	for _, s := range f.Streams {
		if s.Name == name {
			return s, true
		}
	}
	return StreamDef{}, false
}

// Notifications converts the scripted messages to notifications, in
// declaration order.
func (d StreamDef) Notifications() ([]stream.Notification, error) {
	out := make([]stream.Notification, 0, len(d.Messages))
	for i, m := range d.Messages {
		kind, err := stream.ParseKind(m.Kind)
		if err != nil {
			return nil, fmt.Errorf("stream %s: messages[%d]: %w", d.Name, i, err)
		}
		switch kind {
		case stream.KindNext:
			out = append(out, stream.OnNext(m.Time, m.Value))
		case stream.KindCompleted:
			out = append(out, stream.OnCompleted(m.Time))
		case stream.KindError:
			out = append(out, stream.OnError(m.Time, errors.New(m.Error)))
		}
	}
	return out, nil
}

// ValidationError reports a malformed fixture.
type ValidationError struct {
	Fixture string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Fixture != "" {
		return fmt.Sprintf("invalid fixture %s: %s", e.Fixture, e.Message)
	}
	return "invalid fixture: " + e.Message
}

func invalid(f *Fixture, format string, args ...any) error {
	return &ValidationError{Fixture: f.Name, Message: fmt.Sprintf(format, args...)}
}

// Validate checks required fields, stream names and assertion shapes.
func Validate(f *Fixture) error {
	if f.Name == "" {
		return invalid(f, "name is required")
	}
	if len(f.Streams) == 0 {
		return invalid(f, "streams list is required and must be non-empty")
	}
	if f.Timing != nil {
		if err := f.Timing.Validate(); err != nil {
			return invalid(f, "%v", err)
		}
	}

	seen := make(map[string]bool, len(f.Streams))
	for i, s := range f.Streams {
		if s.Name == "" {
			return invalid(f, "streams[%d]: name is required", i)
		}
		if seen[s.Name] {
			return invalid(f, "streams[%d]: duplicate stream name %q", i, s.Name)
		}
		seen[s.Name] = true

		if s.Kind != "" && s.Kind != KindHot && s.Kind != KindCold {
			return invalid(f, "streams[%d]: kind must be %s or %s, got %q", i, KindHot, KindCold, s.Kind)
		}
		for j, m := range s.Messages {
			if err := validateMessage(m); err != nil {
				return invalid(f, "streams[%d].messages[%d]: %v", i, j, err)
			}
		}
	}

	if f.View != nil {
		if _, err := vdom.Render(*f.View); err != nil {
			return invalid(f, "view: %v", err)
		}
	}

	for i, a := range f.Assertions {
		if err := validateAssertion(a, seen); err != nil {
			return invalid(f, "assertions[%d]: %v", i, err)
		}
	}
	return nil
}

func validateMessage(m MessageDef) error {
	if m.Time < 0 {
		return fmt.Errorf("time must be non-negative, got %d", m.Time)
	}
	kind, err := stream.ParseKind(m.Kind)
	if err != nil {
		return err
	}
	if kind != stream.KindNext && m.Value != nil {
		return fmt.Errorf("value is only allowed on next messages")
	}
	if kind != stream.KindError && m.Error != "" {
		return fmt.Errorf("error is only allowed on error messages")
	}
	return nil
}

func validateAssertion(a Assertion, streams map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("type is required")
	}
	if a.Stream == "" {
		return fmt.Errorf("stream is required")
	}
	if !streams[a.Stream] {
		return fmt.Errorf("unknown stream %q", a.Stream)
	}

	switch a.Type {
	case AssertValues:
		if a.Values == nil {
			return fmt.Errorf("values list is required for values (use [] for none)")
		}
	case AssertMessageCount:
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for message_count")
		}
	case AssertCompletes:
		if a.At < 0 {
			return fmt.Errorf("at must be non-negative for completes")
		}
	case AssertErrors:
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
