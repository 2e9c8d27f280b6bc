package extract

import (
	"github.com/roach88/owlsym/internal/graph"
	"github.com/roach88/owlsym/internal/vocab"
)

// ListStrategy reports how an RDF list was read.
type ListStrategy int

const (
	// ListHelper means the strict graph.Collection reading succeeded.
	ListHelper ListStrategy = iota
	// ListManual means the list was malformed and was read by the
	// best-effort walk.
	ListManual
)

func (s ListStrategy) String() string {
	if s == ListManual {
		return "manual"
	}
	return "helper"
}

var (
	rdfFirst = graph.IRI(vocab.RDFFirst)
	rdfRest  = graph.IRI(vocab.RDFRest)
	rdfNil   = graph.IRI(vocab.RDFNil)
)

// MaterializeList reads the RDF list starting at head. Well-formed lists
// come back whole. For a malformed list the walk follows the first
// rdf:first and rdf:rest of each link and stops silently at rdf:nil, at a
// link missing either predicate, or at a link already visited. It never
// fails.
func MaterializeList(g *graph.Graph, head graph.Node) ([]graph.Node, ListStrategy) {
	if items, err := g.Collection(head); err == nil {
		return items, ListHelper
	}

	var items []graph.Node
	visited := make(map[graph.Node]struct{})
	cur := head
	for !cur.IsAny() && cur != rdfNil {
		if _, ok := visited[cur]; ok {
			break
		}
		visited[cur] = struct{}{}

		first, ok := g.Value(cur, rdfFirst)
		if !ok {
			break
		}
		items = append(items, first)

		next, ok := g.Value(cur, rdfRest)
		if !ok {
			break
		}
		cur = next
	}
	return items, ListManual
}
