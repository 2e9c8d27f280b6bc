package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Annotations is an ordered multimap from predicate IRI to string values.
// Keys keep first-insertion order and values keep insertion order. Add
// deduplicates a key's values; Append does not. The zero value is empty and
// ready to use.
//
// JSON object keys are emitted in canonical order; the insertion order is
// what callers observe through Keys and what decoding restores.
type Annotations struct {
	keys   []string
	values map[string][]string
}

// Add appends value under key unless it is already present there.
// It reports whether the value was new.
func (a *Annotations) Add(key, value string) bool {
	if a.values == nil {
		a.values = make(map[string][]string)
	}
	existing, ok := a.values[key]
	if !ok {
		a.keys = append(a.keys, key)
	}
	if slices.Contains(existing, value) {
		return false
	}
	a.values[key] = append(existing, value)
	return true
}

// Append adds value under key even when an equal value is already there.
func (a *Annotations) Append(key, value string) {
	if a.values == nil {
		a.values = make(map[string][]string)
	}
	existing, ok := a.values[key]
	if !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = append(existing, value)
}

// Merge adds every value of other, preserving other's order.
func (a *Annotations) Merge(other Annotations) {
	for _, k := range other.keys {
		for _, v := range other.values[k] {
			a.Add(k, v)
		}
	}
}

// Keys returns the keys in first-insertion order.
func (a Annotations) Keys() []string {
	return slices.Clone(a.keys)
}

// Get returns the values for key.
func (a Annotations) Get(key string) []string {
	return slices.Clone(a.values[key])
}

// Len returns the number of keys.
func (a Annotations) Len() int {
	return len(a.keys)
}

// Record renders the annotations as a JSON object of string arrays.
func (a Annotations) Record() Object {
	obj := make(Object, len(a.keys))
	for _, k := range a.keys {
		obj[k] = Strings(a.values[k])
	}
	return obj
}

// MarshalJSON emits canonical JSON.
func (a Annotations) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(a.Record())
}

// UnmarshalJSON decodes an object of string arrays, keeping the document's
// key order.
func (a *Annotations) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = Annotations{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("annotations: expected object, got %v", tok)
	}

	out := Annotations{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("annotations: expected key, got %v", tok)
		}
		var vals []string
		if err := dec.Decode(&vals); err != nil {
			return fmt.Errorf("annotations %q: %w", key, err)
		}
		if len(vals) == 0 {
			// Keep the key even when it has no values.
			if out.values == nil {
				out.values = make(map[string][]string)
			}
			if _, seen := out.values[key]; !seen {
				out.keys = append(out.keys, key)
				out.values[key] = nil
			}
		}
		for _, v := range vals {
			out.Append(key, v)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}
