package ir

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ExprType discriminates the Expression variants. It is emitted as the
// "exprType" field of every expression record.
type ExprType string

const (
	ExprNamed        ExprType = "Named"
	ExprLiteral      ExprType = "Literal"
	ExprRestriction  ExprType = "Restriction"
	ExprIntersection ExprType = "Intersection"
	ExprUnion        ExprType = "Union"
	ExprComplement   ExprType = "Complement"
	ExprOneOf        ExprType = "OneOf"
	ExprBNode        ExprType = "BNode"
	ExprUnknown      ExprType = "Unknown"
)

// ExprTypes lists every discriminant.
var ExprTypes = []ExprType{
	ExprNamed, ExprLiteral, ExprRestriction, ExprIntersection, ExprUnion,
	ExprComplement, ExprOneOf, ExprBNode, ExprUnknown,
}

// Expression is a JSON-ready summary of an OWL class expression. It is a
// sealed interface: the nine types in this file are the only
// implementations, so type switches over it are exhaustive.
type Expression interface {
	Kind() ExprType
	// Record renders the expression as a JSON object.
	Record() Object
	expression()
}

// Named is a reference to a named resource.
type Named struct {
	IRI string
}

// Literal is a literal filler or list member. Datatype and Lang are empty
// unless literal detail is enabled during extraction.
type Literal struct {
	Value    string
	Datatype string
	Lang     string
}

// RestrictionFacet names one filler of an owl:Restriction. The string is
// both the OWL local name and the JSON key.
type RestrictionFacet string

const (
	FacetSomeValuesFrom          RestrictionFacet = "someValuesFrom"
	FacetAllValuesFrom           RestrictionFacet = "allValuesFrom"
	FacetHasValue                RestrictionFacet = "hasValue"
	FacetMinQualifiedCardinality RestrictionFacet = "minQualifiedCardinality"
	FacetMaxQualifiedCardinality RestrictionFacet = "maxQualifiedCardinality"
	FacetQualifiedCardinality    RestrictionFacet = "qualifiedCardinality"
	FacetMinCardinality          RestrictionFacet = "minCardinality"
	FacetMaxCardinality          RestrictionFacet = "maxCardinality"
	FacetCardinality             RestrictionFacet = "cardinality"
)

// Facets is the fixed order in which restriction fillers are read.
var Facets = []RestrictionFacet{
	FacetSomeValuesFrom,
	FacetAllValuesFrom,
	FacetHasValue,
	FacetMinQualifiedCardinality,
	FacetMaxQualifiedCardinality,
	FacetQualifiedCardinality,
	FacetMinCardinality,
	FacetMaxCardinality,
	FacetCardinality,
}

// Filler is one present restriction facet. Resource fillers are summarized
// into Expr; literal fillers (cardinalities, hasValue data) keep their
// lexical form in Raw and leave Expr nil.
type Filler struct {
	Facet RestrictionFacet
	Expr  Expression
	Raw   string
}

// Restriction is an owl:Restriction. OnProperty is empty when the
// restriction names no property; it serializes as null.
type Restriction struct {
	OnProperty string
	Fillers    []Filler
}

// Intersection is owl:intersectionOf.
type Intersection struct {
	Operands []Expression
}

// Union is owl:unionOf.
type Union struct {
	Operands []Expression
}

// Complement is owl:complementOf.
type Complement struct {
	Operand Expression
}

// OneOf is an owl:oneOf enumeration.
type OneOf struct {
	Members []Expression
}

// BNode is a blank node with no recognized OWL shape: its immediate
// predicate/object pairs as string forms.
type BNode struct {
	Props Annotations
}

// Unknown is any node that fits no other variant.
type Unknown struct {
	Value string
}

func (Named) expression()        {}
func (Literal) expression()      {}
func (Restriction) expression()  {}
func (Intersection) expression() {}
func (Union) expression()        {}
func (Complement) expression()   {}
func (OneOf) expression()        {}
func (BNode) expression()        {}
func (Unknown) expression()      {}

func (Named) Kind() ExprType        { return ExprNamed }
func (Literal) Kind() ExprType      { return ExprLiteral }
func (Restriction) Kind() ExprType  { return ExprRestriction }
func (Intersection) Kind() ExprType { return ExprIntersection }
func (Union) Kind() ExprType        { return ExprUnion }
func (Complement) Kind() ExprType   { return ExprComplement }
func (OneOf) Kind() ExprType        { return ExprOneOf }
func (BNode) Kind() ExprType        { return ExprBNode }
func (Unknown) Kind() ExprType      { return ExprUnknown }

func record(t ExprType) Object {
	return Object{"exprType": Str(t)}
}

func (e Named) Record() Object {
	obj := record(ExprNamed)
	obj["iri"] = Str(e.IRI)
	return obj
}

func (e Literal) Record() Object {
	obj := record(ExprLiteral)
	obj["value"] = Str(e.Value)
	if e.Datatype != "" {
		obj["datatype"] = Str(e.Datatype)
	}
	if e.Lang != "" {
		obj["lang"] = Str(e.Lang)
	}
	return obj
}

func (e Restriction) Record() Object {
	obj := record(ExprRestriction)
	obj["onProperty"] = Null{}
	if e.OnProperty != "" {
		obj["onProperty"] = Str(e.OnProperty)
	}
	for _, f := range e.Fillers {
		if f.Expr != nil {
			obj[string(f.Facet)] = f.Expr.Record()
		} else {
			obj[string(f.Facet)] = Str(f.Raw)
		}
	}
	return obj
}

func (e Intersection) Record() Object {
	obj := record(ExprIntersection)
	obj["operands"] = exprArray(e.Operands)
	return obj
}

func (e Union) Record() Object {
	obj := record(ExprUnion)
	obj["operands"] = exprArray(e.Operands)
	return obj
}

func (e Complement) Record() Object {
	obj := record(ExprComplement)
	if e.Operand == nil {
		obj["operand"] = Null{}
	} else {
		obj["operand"] = e.Operand.Record()
	}
	return obj
}

func (e OneOf) Record() Object {
	obj := record(ExprOneOf)
	obj["members"] = exprArray(e.Members)
	return obj
}

func (e BNode) Record() Object {
	obj := record(ExprBNode)
	obj["props"] = e.Props.Record()
	return obj
}

func (e Unknown) Record() Object {
	obj := record(ExprUnknown)
	obj["value"] = Str(e.Value)
	return obj
}

func exprArray(exprs []Expression) Array {
	arr := make(Array, 0, len(exprs))
	for _, e := range exprs {
		arr = append(arr, e.Record())
	}
	return arr
}

// MarshalExpression renders e as canonical JSON.
func MarshalExpression(e Expression) ([]byte, error) {
	return MarshalCanonical(e.Record())
}

// ErrUnknownExprType is returned when decoding a record whose exprType is
// not one of ExprTypes.
var ErrUnknownExprType = errors.New("unknown exprType")

// UnmarshalExpression decodes an expression record produced by
// MarshalExpression (or any JSON with the same shape).
func UnmarshalExpression(data []byte) (Expression, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode expression: %w", err)
	}
	var kind ExprType
	if err := decodeField(fields, "exprType", &kind); err != nil {
		return nil, err
	}

	switch kind {
	case ExprNamed:
		var e Named
		if err := decodeField(fields, "iri", &e.IRI); err != nil {
			return nil, err
		}
		return e, nil
	case ExprLiteral:
		var e Literal
		if err := decodeField(fields, "value", &e.Value); err != nil {
			return nil, err
		}
		if err := decodeOptional(fields, "datatype", &e.Datatype); err != nil {
			return nil, err
		}
		if err := decodeOptional(fields, "lang", &e.Lang); err != nil {
			return nil, err
		}
		return e, nil
	case ExprRestriction:
		return unmarshalRestriction(fields)
	case ExprIntersection:
		ops, err := decodeExprList(fields, "operands")
		if err != nil {
			return nil, err
		}
		return Intersection{Operands: ops}, nil
	case ExprUnion:
		ops, err := decodeExprList(fields, "operands")
		if err != nil {
			return nil, err
		}
		return Union{Operands: ops}, nil
	case ExprComplement:
		raw, ok := fields["operand"]
		if !ok || string(raw) == "null" {
			return Complement{}, nil
		}
		op, err := UnmarshalExpression(raw)
		if err != nil {
			return nil, fmt.Errorf("operand: %w", err)
		}
		return Complement{Operand: op}, nil
	case ExprOneOf:
		members, err := decodeExprList(fields, "members")
		if err != nil {
			return nil, err
		}
		return OneOf{Members: members}, nil
	case ExprBNode:
		var e BNode
		if raw, ok := fields["props"]; ok {
			if err := json.Unmarshal(raw, &e.Props); err != nil {
				return nil, fmt.Errorf("props: %w", err)
			}
		}
		return e, nil
	case ExprUnknown:
		var e Unknown
		if err := decodeField(fields, "value", &e.Value); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExprType, kind)
	}
}

func unmarshalRestriction(fields map[string]json.RawMessage) (Expression, error) {
	var e Restriction
	if err := decodeOptional(fields, "onProperty", &e.OnProperty); err != nil {
		return nil, err
	}
	for _, facet := range Facets {
		raw, ok := fields[string(facet)]
		if !ok {
			continue
		}
		f := Filler{Facet: facet}
		if len(raw) > 0 && raw[0] == '{' {
			expr, err := UnmarshalExpression(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", facet, err)
			}
			f.Expr = expr
		} else if err := json.Unmarshal(raw, &f.Raw); err != nil {
			return nil, fmt.Errorf("%s: %w", facet, err)
		}
		e.Fillers = append(e.Fillers, f)
	}
	return e, nil
}

func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return fmt.Errorf("decode expression: missing %q", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode expression %q: %w", key, err)
	}
	return nil
}

// decodeOptional leaves dst untouched when key is absent or null.
func decodeOptional(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode expression %q: %w", key, err)
	}
	return nil
}

func decodeExprList(fields map[string]json.RawMessage, key string) ([]Expression, error) {
	var raws []json.RawMessage
	if err := decodeField(fields, key, &raws); err != nil {
		return nil, err
	}
	return decodeExprs(raws, key)
}

func decodeExprs(raws []json.RawMessage, key string) ([]Expression, error) {
	out := make([]Expression, 0, len(raws))
	for i, raw := range raws {
		e, err := UnmarshalExpression(raw)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
