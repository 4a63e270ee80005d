package stream

import (
	"fmt"
	"sort"
)

// Kind tags a Notification.
type Kind int

const (
	// KindNext carries a value.
	KindNext Kind = iota + 1
	// KindCompleted terminates a stream successfully.
	KindCompleted
	// KindError terminates a stream with an error.
	KindError
)

// String returns the lower-case kind name used in fixtures and snapshots.
func (k Kind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindCompleted:
		return "completed"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a kind name back to a Kind. An empty name means next.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "next":
		return KindNext, nil
	case "completed":
		return KindCompleted, nil
	case "error":
		return KindError, nil
	default:
		return 0, fmt.Errorf("unknown notification kind %q (want next, completed or error)", s)
	}
}

// Notification is a timestamped next/completed/error record.
//
// For scripted streams Time is the scheduled virtual time (absolute for hot
// streams, relative to subscription for cold ones). For recorded messages
// Time is the virtual time at which the observer received it.
type Notification struct {
	Time  int64
	Kind  Kind
	Value any   // set for KindNext
	Err   error // set for KindError
}

// OnNext creates a next notification at time t.
func OnNext(t int64, value any) Notification {
	return Notification{Time: t, Kind: KindNext, Value: value}
}

// OnCompleted creates a completed notification at time t.
func OnCompleted(t int64) Notification {
	return Notification{Time: t, Kind: KindCompleted}
}

// OnError creates an error notification at time t.
func OnError(t int64, err error) Notification {
	return Notification{Time: t, Kind: KindError, Err: err}
}

// Accept delivers the notification to o.
func (n Notification) Accept(o Observer) {
	switch n.Kind {
	case KindNext:
		o.OnNext(n.Value)
	case KindCompleted:
		o.OnCompleted()
	case KindError:
		o.OnError(n.Err)
	}
}

// String formats the notification as "next@100(value)".
func (n Notification) String() string {
	switch n.Kind {
	case KindNext:
		return fmt.Sprintf("next@%d(%v)", n.Time, n.Value)
	case KindError:
		return fmt.Sprintf("error@%d(%v)", n.Time, n.Err)
	default:
		return fmt.Sprintf("%s@%d", n.Kind, n.Time)
	}
}

// Values extracts the payloads of next notifications, in order.
// Completed and error notifications contribute nothing.
func Values(msgs []Notification) []any {
	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		if m.Kind == KindNext {
			values = append(values, m.Value)
		}
	}
	return values
}

// SortByTime returns a copy of msgs sorted by Time. Messages sharing a time
// keep their relative order.
func SortByTime(msgs []Notification) []Notification {
	sorted := make([]Notification, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	return sorted
}
