package graph

import (
	"errors"
	"fmt"

	"github.com/roach88/owlsym/internal/vocab"
)

// List structure errors returned by Collection.
var (
	ErrMalformedList = errors.New("malformed rdf list")
	ErrCyclicList    = errors.New("cyclic rdf list")
)

var (
	rdfFirst = IRI(vocab.RDFFirst)
	rdfRest  = IRI(vocab.RDFRest)
	rdfNil   = IRI(vocab.RDFNil)
)

// Nil is the rdf:nil list terminator.
func Nil() Node { return rdfNil }

// Collection reads the RDF list rooted at head. It only succeeds for
// well-formed lists: every link has exactly one rdf:first and exactly one
// rdf:rest, the chain ends at rdf:nil, and no link is visited twice.
// Callers that need a best-effort reading of broken lists fall back to
// their own walk when Collection returns an error.
func (g *Graph) Collection(head Node) ([]Node, error) {
	var items []Node
	visited := make(map[Node]struct{})
	cur := head
	for cur != rdfNil {
		if !cur.IsResource() {
			return nil, fmt.Errorf("%w: link %s is not a resource", ErrMalformedList, cur)
		}
		if _, ok := visited[cur]; ok {
			return nil, fmt.Errorf("%w: link %s revisited", ErrCyclicList, cur)
		}
		visited[cur] = struct{}{}

		firsts := g.Objects(cur, rdfFirst)
		if len(firsts) != 1 {
			return nil, fmt.Errorf("%w: link %s has %d rdf:first values", ErrMalformedList, cur, len(firsts))
		}
		rests := g.Objects(cur, rdfRest)
		if len(rests) != 1 {
			return nil, fmt.Errorf("%w: link %s has %d rdf:rest values", ErrMalformedList, cur, len(rests))
		}
		items = append(items, firsts[0])
		cur = rests[0]
	}
	return items, nil
}
