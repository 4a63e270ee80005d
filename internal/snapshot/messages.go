package snapshot

import (
	"fmt"
	"sort"

	"github.com/roach88/cycletest/internal/stream"
)

// Messages converts notifications to their document form:
//
//	{"kind":"next","time":100,"value":1}
//	{"kind":"completed","time":300}
//	{"error":"boom","kind":"error","time":50}
func Messages(msgs []stream.Notification) []any {
	out := make([]any, len(msgs))
	for i, m := range msgs {
		doc := map[string]any{
			"time": m.Time,
			"kind": m.Kind.String(),
		}
		switch m.Kind {
		case stream.KindNext:
			doc["value"] = m.Value
		case stream.KindError:
			if m.Err != nil {
				doc["error"] = m.Err.Error()
			} else {
				doc["error"] = ""
			}
		}
		out[i] = doc
	}
	return out
}

// MarshalMessages is MarshalCanonical(Messages(msgs)).
func MarshalMessages(msgs []stream.Notification) ([]byte, error) {
	data, err := MarshalCanonical(Messages(msgs))
	if err != nil {
		return nil, fmt.Errorf("marshal messages: %w", err)
	}
	return data, nil
}

// History serializes the recorded streams of one fixture run:
//
//	{"fixture":"counter","streams":{"clicks":[...]}}
func History(name string, streams map[string][]stream.Notification) ([]byte, error) {
	docs := make(map[string]any, len(streams))
	for s, msgs := range streams {
		docs[s] = Messages(msgs)
	}
	data, err := MarshalCanonical(map[string]any{
		"fixture": name,
		"streams": docs,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal history for %s: %w", name, err)
	}
	return data, nil
}

// StreamNames returns the keys of streams in sorted order.
func StreamNames(streams map[string][]stream.Notification) []string {
	names := make([]string, 0, len(streams))
	for name := range streams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
