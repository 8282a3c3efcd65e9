// Package payload normalizes the response envelopes returned by the queue
// backend. A collection may arrive as a bare array or wrapped under a named
// key; callers always get back a plain ordered slice.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeArray
	ShapeEnvelope
	ShapeObject
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeEnvelope:
		return "envelope"
	case ShapeObject:
		return "object"
	default:
		return "unknown"
	}
}

// ShapeError reports a payload that matched none of the accepted shapes. It
// is informational: Collection still returns an empty, usable result.
type ShapeError struct {
	Keys  []string
	Cause error
}

func (e *ShapeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unexpected payload shape (keys %v): %v", e.Keys, e.Cause)
	}
	return fmt.Sprintf("unexpected payload shape (keys %v)", e.Keys)
}

func (e *ShapeError) Unwrap() error {
	return e.Cause
}

// Detect classifies raw and returns the part that holds the data: the array
// itself, the array found under the first matching key, or the whole object.
func Detect(raw []byte, keys ...string) (Shape, json.RawMessage) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ShapeUnknown, nil
	}
	switch trimmed[0] {
	case '[':
		return ShapeArray, trimmed
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return ShapeUnknown, nil
		}
		for _, key := range keys {
			value, ok := fields[key]
			if !ok {
				continue
			}
			value = bytes.TrimSpace(value)
			if len(value) > 0 && value[0] == '[' {
				return ShapeEnvelope, value
			}
		}
		return ShapeObject, trimmed
	default:
		return ShapeUnknown, nil
	}
}

// Collection decodes raw into a slice of T. The result is never nil. When raw
// is neither an array nor an object carrying an array under one of keys, the
// result is empty and the error is a *ShapeError.
func Collection[T any](raw []byte, keys ...string) ([]T, error) {
	shape, data := Detect(raw, keys...)
	if shape != ShapeArray && shape != ShapeEnvelope {
		return []T{}, &ShapeError{Keys: keys}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return []T{}, &ShapeError{Keys: keys, Cause: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Object decodes a single object that is either bare or wrapped under one of
// keys. ok is false when nothing object-shaped was found.
func Object[T any](raw []byte, keys ...string) (T, bool) {
	var zero T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return zero, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return zero, false
	}
	for _, key := range keys {
		value, ok := fields[key]
		if !ok {
			continue
		}
		value = bytes.TrimSpace(value)
		if len(value) == 0 || value[0] != '{' {
			continue
		}
		var out T
		if err := json.Unmarshal(value, &out); err != nil {
			return zero, false
		}
		return out, true
	}
	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return zero, false
	}
	return out, true
}
