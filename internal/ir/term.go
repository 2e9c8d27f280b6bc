package ir

import (
	"encoding/json"
	"fmt"
)

// Role is a category under which a term was discovered.
type Role string

const (
	RoleClass              Role = "Class"
	RoleObjectProperty     Role = "ObjectProperty"
	RoleDatatypeProperty   Role = "DatatypeProperty"
	RoleAnnotationProperty Role = "AnnotationProperty"
	RoleIndividual         Role = "Individual"
)

// Roles lists every role in discovery order.
var Roles = []Role{
	RoleClass, RoleObjectProperty, RoleDatatypeProperty, RoleAnnotationProperty, RoleIndividual,
}

// IsProperty reports whether r is one of the three property roles.
func (r Role) IsProperty() bool {
	return r == RoleObjectProperty || r == RoleDatatypeProperty || r == RoleAnnotationProperty
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q (want one of %v)", s, Roles)
}

// Characteristic is an OWL property characteristic.
type Characteristic string

const (
	Functional        Characteristic = "Functional"
	InverseFunctional Characteristic = "InverseFunctional"
	Transitive        Characteristic = "Transitive"
	Symmetric         Characteristic = "Symmetric"
	Asymmetric        Characteristic = "Asymmetric"
	Reflexive         Characteristic = "Reflexive"
	Irreflexive       Characteristic = "Irreflexive"
)

// Characteristics is the fixed reporting order.
var Characteristics = []Characteristic{
	Functional, InverseFunctional, Transitive, Symmetric, Asymmetric, Reflexive, Irreflexive,
}

// Term is the symbol-table record for one IRI. Every slice field
// serializes as an array, empty rather than null.
type Term struct {
	IRI                     string
	Types                   []Role
	Labels                  []string
	AltLabels               []string
	Comments                []string
	Annotations             Annotations
	Domains                 []string
	Ranges                  []string
	SubClassOf              []Expression
	EquivalentClass         []Expression
	PropertyCharacteristics []Characteristic
	SubPropertyOf           []string
	InverseOf               []string
	IndividualTypes         []string
}

// HasRole reports whether r is among t.Types.
func (t *Term) HasRole(r Role) bool {
	for _, have := range t.Types {
		if have == r {
			return true
		}
	}
	return false
}

// Record renders the term as a JSON object.
func (t *Term) Record() Object {
	types := make(Array, 0, len(t.Types))
	for _, r := range t.Types {
		types = append(types, Str(r))
	}
	chars := make(Array, 0, len(t.PropertyCharacteristics))
	for _, c := range t.PropertyCharacteristics {
		chars = append(chars, Str(c))
	}
	return Object{
		"iri":                     Str(t.IRI),
		"types":                   types,
		"labels":                  Strings(t.Labels),
		"altLabels":               Strings(t.AltLabels),
		"comments":                Strings(t.Comments),
		"annotations":             t.Annotations.Record(),
		"domains":                 Strings(t.Domains),
		"ranges":                  Strings(t.Ranges),
		"subClassOf":              exprArray(t.SubClassOf),
		"equivalentClass":         exprArray(t.EquivalentClass),
		"propertyCharacteristics": chars,
		"subPropertyOf":           Strings(t.SubPropertyOf),
		"inverseOf":               Strings(t.InverseOf),
		"individualTypes":         Strings(t.IndividualTypes),
	}
}

// MarshalJSON emits the canonical record.
func (t Term) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(t.Record())
}

// termJSON mirrors the record for decoding; expressions are decoded
// separately because Expression is an interface.
type termJSON struct {
	IRI                     string            `json:"iri"`
	Types                   []Role            `json:"types"`
	Labels                  []string          `json:"labels"`
	AltLabels               []string          `json:"altLabels"`
	Comments                []string          `json:"comments"`
	Annotations             Annotations       `json:"annotations"`
	Domains                 []string          `json:"domains"`
	Ranges                  []string          `json:"ranges"`
	SubClassOf              []json.RawMessage `json:"subClassOf"`
	EquivalentClass         []json.RawMessage `json:"equivalentClass"`
	PropertyCharacteristics []Characteristic  `json:"propertyCharacteristics"`
	SubPropertyOf           []string          `json:"subPropertyOf"`
	InverseOf               []string          `json:"inverseOf"`
	IndividualTypes         []string          `json:"individualTypes"`
}

// UnmarshalJSON decodes a term record.
func (t *Term) UnmarshalJSON(data []byte) error {
	var raw termJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode term: %w", err)
	}
	sub, err := decodeExprs(raw.SubClassOf, "subClassOf")
	if err != nil {
		return fmt.Errorf("decode term %s: %w", raw.IRI, err)
	}
	eq, err := decodeExprs(raw.EquivalentClass, "equivalentClass")
	if err != nil {
		return fmt.Errorf("decode term %s: %w", raw.IRI, err)
	}
	*t = Term{
		IRI:                     raw.IRI,
		Types:                   raw.Types,
		Labels:                  raw.Labels,
		AltLabels:               raw.AltLabels,
		Comments:                raw.Comments,
		Annotations:             raw.Annotations,
		Domains:                 raw.Domains,
		Ranges:                  raw.Ranges,
		SubClassOf:              sub,
		EquivalentClass:         eq,
		PropertyCharacteristics: raw.PropertyCharacteristics,
		SubPropertyOf:           raw.SubPropertyOf,
		InverseOf:               raw.InverseOf,
		IndividualTypes:         raw.IndividualTypes,
	}
	return nil
}

// SymbolTable is the extraction output for one document.
type SymbolTable struct {
	SourceFile string
	TermCount  int
	Terms      []Term
}

// NewSymbolTable builds a table whose TermCount matches len(terms).
func NewSymbolTable(sourceFile string, terms []Term) *SymbolTable {
	if terms == nil {
		terms = []Term{}
	}
	return &SymbolTable{
		SourceFile: sourceFile,
		TermCount:  len(terms),
		Terms:      terms,
	}
}

// Lookup returns the term for iri.
func (st *SymbolTable) Lookup(iri string) (*Term, bool) {
	for i := range st.Terms {
		if st.Terms[i].IRI == iri {
			return &st.Terms[i], true
		}
	}
	return nil, false
}

// Record renders the table as a JSON object.
func (st *SymbolTable) Record() Object {
	terms := make(Array, 0, len(st.Terms))
	for i := range st.Terms {
		terms = append(terms, st.Terms[i].Record())
	}
	return Object{
		"sourceFile": Str(st.SourceFile),
		"termCount":  Int(st.TermCount),
		"terms":      terms,
	}
}

// Encode renders the table as canonical JSON, or as two-space indented
// JSON with the same key order when indent is true.
func (st *SymbolTable) Encode(indent bool) ([]byte, error) {
	if indent {
		return MarshalIndent(st.Record())
	}
	return MarshalCanonical(st.Record())
}

// MarshalJSON emits canonical JSON.
func (st SymbolTable) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(st.Record())
}

// UnmarshalJSON decodes a table and rejects a termCount that does not
// match the number of terms.
func (st *SymbolTable) UnmarshalJSON(data []byte) error {
	var raw struct {
		SourceFile string `json:"sourceFile"`
		TermCount  int    `json:"termCount"`
		Terms      []Term `json:"terms"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.TermCount != len(raw.Terms) {
		return fmt.Errorf("decode symbol table: termCount %d but %d terms", raw.TermCount, len(raw.Terms))
	}
	*st = *NewSymbolTable(raw.SourceFile, raw.Terms)
	return nil
}
