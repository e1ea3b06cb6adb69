// file: internal/playlist/customdata.go
// version: 1.1.0
// guid: 1b7e4f20-8d3c-4a65-9c12-f6e08a2d5b47

package playlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// CustomData holds caller-defined fields outside the schema. Each value is
// a compact JSON document with HTML characters left unescaped; encoding
// sorts keys.
type CustomData map[string]json.RawMessage

// NormalizeCustomData compacts every value of raw so that equal documents
// compare equal byte for byte. Nil and empty inputs yield nil.
func NormalizeCustomData(raw map[string]json.RawMessage) (CustomData, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(CustomData, len(raw))
	for key, value := range raw {
		compact, err := compactJSON(value)
		if err != nil {
			return nil, fmt.Errorf("custom data field %q: %w", key, err)
		}
		out[key] = compact
	}
	return out, nil
}

func compactJSON(value []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

// MarshalJSON encodes v as compact JSON without escaping &, < and >
func MarshalJSON(v any) ([]byte, error) {
	return encodeJSON(v, "")
}

// MarshalIndentJSON is MarshalJSON with each level indented by indent
func MarshalIndentJSON(v any, indent string) ([]byte, error) {
	return encodeJSON(v, indent)
}

func encodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Set stores v under key, encoded as compact JSON
func (c *CustomData) Set(key string, v any) error {
	raw, err := MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to encode custom data %q: %w", key, err)
	}
	if *c == nil {
		*c = make(CustomData)
	}
	(*c)[key] = raw
	return nil
}

// Get decodes the value under key into dst. It reports false when the key
// is absent.
func (c CustomData) Get(key string, dst any) (bool, error) {
	raw, ok := c[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("failed to decode custom data %q: %w", key, err)
	}
	return true, nil
}

// Merge copies entries of other that c does not already have
func (c *CustomData) Merge(other CustomData) {
	for key, value := range other {
		if _, exists := (*c)[key]; exists {
			continue
		}
		if *c == nil {
			*c = make(CustomData, len(other))
		}
		(*c)[key] = value
	}
}

// Clone returns a deep copy
func (c CustomData) Clone() CustomData {
	if c == nil {
		return nil
	}
	out := make(CustomData, len(c))
	for key, value := range c {
		out[key] = append(json.RawMessage(nil), value...)
	}
	return out
}

// Equal compares two maps entry by entry; nil equals empty. Values are
// equal when they decode to the same document, so whitespace and escaping
// differences do not count.
func (c CustomData) Equal(other CustomData) bool {
	if len(c) != len(other) {
		return false
	}
	for key, value := range c {
		theirs, ok := other[key]
		if !ok || !sameJSON(value, theirs) {
			return false
		}
	}
	return true
}

func sameJSON(a, b json.RawMessage) bool {
	if bytes.Equal(a, b) {
		return true
	}
	va, err := decodeJSON(a)
	if err != nil {
		return false
	}
	vb, err := decodeJSON(b)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}

// decodeJSON keeps numbers as written so large integers compare exactly
func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
