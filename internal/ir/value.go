package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the JSON shapes a symbol table is made
// of. Only Null, Str, Int, Bool, Array and Object implement it. There is no
// float variant: cardinalities are carried as their lexical form.
type Value interface {
	jsonValue()
}

// Null is JSON null. Restrictions use it for a missing owl:onProperty.
type Null struct{}

func (Null) jsonValue() {}

// Str is a JSON string.
type Str string

func (Str) jsonValue() {}

// Int is a JSON integer.
type Int int64

func (Int) jsonValue() {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) jsonValue() {}

// Array is a JSON array.
type Array []Value

func (Array) jsonValue() {}

// Object is a JSON object. Iterate with SortedKeys for deterministic output.
type Object map[string]Value

func (Object) jsonValue() {}

// Strings converts a string slice to an Array, never nil.
func Strings(ss []string) Array {
	arr := make(Array, 0, len(ss))
	for _, s := range ss {
		arr = append(arr, Str(s))
	}
	return arr
}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// Go's native string order compares UTF-8 bytes, which differs for
// characters outside the BMP.
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	for i := 0; i < len(a16) && i < len(b16); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	return len(a16) - len(b16)
}

// DecodeValue parses JSON into a Value. Numbers must be integers.
func DecodeValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return fromAny(raw)
}

func fromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return Str(val), nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %s", val)
		}
		return Int(n), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			ev, err := fromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = ev
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			ev, err := fromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			obj[k] = ev
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}
