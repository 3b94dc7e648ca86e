// Package omap implements an insertion-order-preserving string-keyed JSON
// object. JWS/JWE headers and JWKs are both "parameter map with typed
// accessors" data models whose re-serialization must reproduce the exact
// byte string an external signer computed over, so plain map[string]any
// (whose iteration and therefore json.Marshal order is unspecified) cannot
// be used directly.
package omap

import (
	"bytes"
	"encoding/json"
)

// Map is an ordered string-to-value map with JSON object semantics.
type Map struct {
	keys   []string
	values map[string]any
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// Get returns the value stored under key and whether it was present.
func (m *Map) Get(key string) (any, bool) {
	if m.values == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key, appending key to the insertion order the
// first time it is used and leaving the order unchanged on update.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key, if present, keeping the order of the remaining keys.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in insertion order. The caller must not mutate the
// returned slice.
func (m *Map) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Clone returns a deep-enough copy (the key order and top-level map are
// copied; values are shared).
func (m *Map) Clone() *Map {
	out := New()
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}
	return out
}

// MarshalJSON renders the map as a JSON object with members in insertion
// order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object into m, recording member order as
// encountered. data must decode to a JSON object.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}

	*m = Map{values: make(map[string]any)}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errNotObject
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var v any
		valDec := json.NewDecoder(bytes.NewReader(raw))
		valDec.UseNumber()
		if err := valDec.Decode(&v); err != nil {
			return err
		}
		m.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

var errNotObject = &ShapeError{"omap: expected a JSON object"}

// ShapeError is returned when decoded JSON does not have the expected
// object shape.
type ShapeError struct {
	msg string
}

func (e *ShapeError) Error() string { return e.msg }
