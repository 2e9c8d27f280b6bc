package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/owlsym/internal/ir"
)

// ColumnKind says how a column may be filtered.
type ColumnKind int

const (
	// Scalar columns take Equals, Prefix and Contains.
	Scalar ColumnKind = iota
	// List columns hold a JSON array of strings and take AnyEquals and
	// AnyContains.
	List
)

// Schema lists the tables and columns a query may reference. Backends
// interpolate table and column names, so every name must pass through it.
type Schema map[string]map[string]ColumnKind

// ValidationError lists every problem found in a query.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid query: " + strings.Join(e.Problems, "; ")
}

// Validate checks q against schema and returns a *ValidationError when
// anything is wrong. Validate is a pure function.
func Validate(q Query, schema Schema) error {
	v := &validator{schema: schema}
	v.validateQuery(q)
	if len(v.problems) > 0 {
		return &ValidationError{Problems: v.problems}
	}
	return nil
}

type validator struct {
	schema   Schema
	columns  map[string]ColumnKind
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case nil:
		v.addProblem("nil query")
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.addProblem("nil query")
			return
		}
		v.validateSelect(*query)
	default:
		v.addProblem("unknown query type %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	cols, ok := v.schema[sel.From]
	if !ok {
		v.addProblem("unknown table %q", sel.From)
		return
	}
	v.columns = cols

	if len(sel.Fields) == 0 {
		v.addProblem("no fields selected")
	}
	for _, f := range sel.Fields {
		if _, ok := cols[f]; !ok {
			v.addProblem("unknown field %q in %s", f, sel.From)
		}
	}
	if sel.Limit < 0 {
		v.addProblem("negative limit %d", sel.Limit)
	}
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case Equals:
		v.checkField(pred.Field, Scalar)
		switch pred.Value.(type) {
		case ir.Str, ir.Int, ir.Bool:
		default:
			v.addProblem("field %q compared to unsupported value %T", pred.Field, pred.Value)
		}
	case *Equals:
		v.validatePredicate(*pred)
	case Prefix:
		v.checkField(pred.Field, Scalar)
	case *Prefix:
		v.validatePredicate(*pred)
	case Contains:
		v.checkField(pred.Field, Scalar)
		v.checkPattern(pred.Field, pred.Value)
	case *Contains:
		v.validatePredicate(*pred)
	case AnyEquals:
		v.checkField(pred.Field, List)
	case *AnyEquals:
		v.validatePredicate(*pred)
	case AnyContains:
		v.checkField(pred.Field, List)
		v.checkPattern(pred.Field, pred.Value)
	case *AnyContains:
		v.validatePredicate(*pred)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case *And:
		v.validatePredicate(*pred)
	default:
		v.addProblem("unknown predicate type %T", p)
	}
}

func (v *validator) checkField(field string, want ColumnKind) {
	kind, ok := v.columns[field]
	if !ok {
		v.addProblem("unknown field %q", field)
		return
	}
	if kind != want {
		v.addProblem("field %q is not a %s column", field, want)
	}
}

func (v *validator) checkPattern(field, value string) {
	if value == "" {
		v.addProblem("empty search string for %q", field)
	}
}

func (k ColumnKind) String() string {
	if k == List {
		return "list"
	}
	return "scalar"
}
