package graph

import "fmt"

// Kind identifies which variant a Node holds.
type Kind uint8

const (
	// KindAny is the zero Kind. A Node with KindAny is the wildcard in
	// pattern queries and never appears in a stored triple.
	KindAny Kind = iota
	KindIRI
	KindBlank
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is an RDF term: a named resource, an anonymous (blank) node, or a
// literal. Node is comparable and is used directly as a map key by the
// graph indexes.
//
// Value holds the IRI, the blank node label (without the "_:" prefix), or
// the literal's lexical form. Datatype and Lang are only set on literals.
type Node struct {
	Kind     Kind
	Value    string
	Datatype string
	Lang     string
}

// Any matches every node in a pattern position.
var Any = Node{}

// IRI creates a named resource node.
func IRI(iri string) Node {
	return Node{Kind: KindIRI, Value: iri}
}

// Blank creates an anonymous node with the given document-scoped label.
func Blank(id string) Node {
	return Node{Kind: KindBlank, Value: id}
}

// Literal creates a plain literal.
func Literal(value string) Node {
	return Node{Kind: KindLiteral, Value: value}
}

// TypedLiteral creates a literal with an explicit datatype IRI.
func TypedLiteral(value, datatype string) Node {
	return Node{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// LangLiteral creates a language-tagged literal.
func LangLiteral(value, lang string) Node {
	return Node{Kind: KindLiteral, Value: value, Lang: lang}
}

func (n Node) IsAny() bool     { return n.Kind == KindAny }
func (n Node) IsIRI() bool     { return n.Kind == KindIRI }
func (n Node) IsBlank() bool   { return n.Kind == KindBlank }
func (n Node) IsLiteral() bool { return n.Kind == KindLiteral }

// IsResource reports whether n can be the subject of a triple.
func (n Node) IsResource() bool {
	return n.Kind == KindIRI || n.Kind == KindBlank
}

// String returns the node's string form: the IRI for named resources,
// "_:"+label for blank nodes and the lexical form for literals. Datatype
// and language tag are not part of the string form.
func (n Node) String() string {
	switch n.Kind {
	case KindIRI, KindLiteral:
		return n.Value
	case KindBlank:
		return "_:" + n.Value
	default:
		return "*"
	}
}

// matches reports whether n satisfies pattern position p.
func (n Node) matches(p Node) bool {
	return p.IsAny() || n == p
}
