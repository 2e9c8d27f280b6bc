package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/owlsym/internal/ir"
)

// marshalTerm converts a term to canonical JSON TEXT for storage.
func marshalTerm(t *ir.Term) (string, error) {
	data, err := ir.MarshalCanonical(t.Record())
	if err != nil {
		return "", fmt.Errorf("marshal term %s: %w", t.IRI, err)
	}
	return string(data), nil
}

// marshalRoles renders roles as a JSON array for json_each filtering.
func marshalRoles(roles []ir.Role) (string, error) {
	ss := make([]string, len(roles))
	for i, r := range roles {
		ss[i] = string(r)
	}
	return marshalStrings(ss)
}

// marshalLabels renders labels followed by alt labels as one JSON array.
func marshalLabels(t *ir.Term) (string, error) {
	all := make([]string, 0, len(t.Labels)+len(t.AltLabels))
	all = append(all, t.Labels...)
	all = append(all, t.AltLabels...)
	return marshalStrings(all)
}

func marshalStrings(ss []string) (string, error) {
	data, err := ir.MarshalCanonical(ir.Strings(ss))
	if err != nil {
		return "", fmt.Errorf("marshal strings: %w", err)
	}
	return string(data), nil
}

// errNonCanonicalRecord marks a stored record that is valid JSON but not
// what marshalTerm would have written.
var errNonCanonicalRecord = errors.New("term record is not canonical JSON")

// unmarshalTerm parses a stored term record after checking that it is
// byte-identical to its canonical form.
func unmarshalTerm(data string) (ir.Term, error) {
	v, err := ir.DecodeValue([]byte(data))
	if err != nil {
		return ir.Term{}, fmt.Errorf("unmarshal term: %w", err)
	}
	canonical, err := ir.MarshalCanonical(v)
	if err != nil {
		return ir.Term{}, fmt.Errorf("unmarshal term: %w", err)
	}
	if string(canonical) != data {
		return ir.Term{}, fmt.Errorf("unmarshal term: %w", errNonCanonicalRecord)
	}

	var t ir.Term
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return ir.Term{}, fmt.Errorf("unmarshal term: %w", err)
	}
	return t, nil
}
