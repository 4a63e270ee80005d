package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/cycletest/internal/snapshot"
)

// marshalValue converts a next payload to canonical JSON TEXT for storage.
func marshalValue(v any) (string, error) {
	data, err := snapshot.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	return string(data), nil
}

// unmarshalValue parses canonical JSON TEXT. Integral numbers come back as
// int, everything else as float64, matching what fixture decoders produce.
func unmarshalValue(data string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	return fromJSONNumbers(v), nil
}

func fromJSONNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		f, _ := val.Float64()
		return f
	case []any:
		for i, elem := range val {
			val[i] = fromJSONNumbers(elem)
		}
		return val
	case map[string]any:
		for k, elem := range val {
			val[k] = fromJSONNumbers(elem)
		}
		return val
	default:
		return v
	}
}

func marshalErrors(errs []string) (string, error) {
	if errs == nil {
		errs = []string{}
	}
	data, err := snapshot.MarshalCanonical(errs)
	if err != nil {
		return "", fmt.Errorf("marshal errors: %w", err)
	}
	return string(data), nil
}

func unmarshalErrors(data string) ([]string, error) {
	var errs []string
	if err := json.Unmarshal([]byte(data), &errs); err != nil {
		return nil, fmt.Errorf("unmarshal errors: %w", err)
	}
	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}
