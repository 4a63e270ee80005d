package inject

import (
	"io"
	"log/slog"
	"time"

	"github.com/roach88/cycletest/internal/stream"
)

const (
	// DefaultInteractionOffset is the virtual time at which a plain
	// mockInteractions value is emitted.
	DefaultInteractionOffset int64 = 20

	// DefaultArgumentOffset is the virtual time at which a plain
	// callWithObservables value is emitted.
	DefaultArgumentOffset int64 = 11

	// DefaultTimeout bounds how long Run waits for done.
	DefaultTimeout = 2 * time.Second
)

// Options configures a Wrapper.
type Options struct {
	// Logger receives debug records. Defaults to a discarding logger.
	Logger *slog.Logger

	// Timing controls getMessages and getValues playback.
	Timing stream.Timing

	InteractionOffset int64
	ArgumentOffset    int64

	// Timeout is the real-time limit Run applies to asynchronous tests.
	Timeout time.Duration
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timing:            stream.DefaultTiming,
		InteractionOffset: DefaultInteractionOffset,
		ArgumentOffset:    DefaultArgumentOffset,
		Timeout:           DefaultTimeout,
	}
}

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithTiming overrides the create/subscribe/dispose instants used by
// getMessages and getValues.
func WithTiming(t stream.Timing) Option {
	return func(o *Options) {
		o.Timing = t
	}
}

// WithInteractionOffset sets when plain mockInteractions values emit.
func WithInteractionOffset(t int64) Option {
	return func(o *Options) {
		o.InteractionOffset = t
	}
}

// WithArgumentOffset sets when plain callWithObservables values emit.
func WithArgumentOffset(t int64) Option {
	return func(o *Options) {
		o.ArgumentOffset = t
	}
}

// WithTimeout sets how long Run waits for done.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Timing.Validate(); err != nil {
		return o, err
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o, nil
}
