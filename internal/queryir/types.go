package queryir

import "github.com/roach88/owlsym/internal/ir"

// Query is a search over one indexed table.
//
// This is a sealed interface: only types in this package implement it, so
// backends can switch over every variant.
type Query interface {
	queryNode()
}

// Predicate is a row filter.
//
// Predicate types:
//   - Equals: scalar field = value
//   - Prefix: scalar field starts with a string
//   - Contains: scalar field contains a substring
//   - AnyEquals: some element of a list field equals a string
//   - AnyContains: some element of a list field contains a substring
//   - And: all predicates hold
//
// Substring and prefix matches are case-insensitive for ASCII.
type Predicate interface {
	predicateNode()
}

// Select reads Fields from From, keeping rows that satisfy Filter.
//
// Example:
//
//	Select{
//	  From:   "terms",
//	  Fields: []string{"iri", "record"},
//	  Filter: And{Predicates: []Predicate{
//	    Equals{Field: "extraction_id", Value: ir.Str(id)},
//	    AnyEquals{Field: "roles", Value: "Class"},
//	  }},
//	  Limit: 20,
//	}
//
// Rows come back in the table's stable order. Limit <= 0 means no limit.
type Select struct {
	From   string
	Fields []string
	Filter Predicate
	Limit  int
}

func (Select) queryNode() {}

// Equals matches a scalar field against a literal. Only string, integer
// and boolean values are accepted.
type Equals struct {
	Field string
	Value ir.Value
}

func (Equals) predicateNode() {}

// Prefix matches a scalar field that starts with Value.
type Prefix struct {
	Field string
	Value string
}

func (Prefix) predicateNode() {}

// Contains matches a scalar field that contains Value.
type Contains struct {
	Field string
	Value string
}

func (Contains) predicateNode() {}

// AnyEquals matches a list field with at least one element equal to Value.
type AnyEquals struct {
	Field string
	Value string
}

func (AnyEquals) predicateNode() {}

// AnyContains matches a list field with at least one element containing
// Value.
type AnyContains struct {
	Field string
	Value string
}

func (AnyContains) predicateNode() {}

// And is a conjunction. An empty And is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
