package graph

import (
	"errors"
	"fmt"
)

// ErrInvalidTriple is returned by Add for triples that are not valid RDF:
// a literal or wildcard subject, a non-IRI predicate, or a wildcard object.
var ErrInvalidTriple = errors.New("invalid triple")

// Triple is a single (subject, predicate, object) statement.
type Triple struct {
	Subject   Node
	Predicate Node
	Object    Node
}

func (t Triple) String() string {
	return fmt.Sprintf("(%s, %s, %s)", t.Subject, t.Predicate, t.Object)
}

// PredicateObject is one (predicate, object) pair on a fixed subject.
type PredicateObject struct {
	Predicate Node
	Object    Node
}

// Graph is an in-memory set of triples indexed by subject, predicate and
// object. Triples keep the order in which they were first added, and every
// query returns results in that order, so extraction over a graph parsed
// from the same document is reproducible.
//
// A Graph is not safe for concurrent mutation. Once loading is done it is
// treated as an immutable snapshot and may be read from any goroutine.
type Graph struct {
	triples     []Triple
	set         map[Triple]struct{}
	bySubject   map[Node][]int
	byPredicate map[Node][]int
	byObject    map[Node][]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		set:         make(map[Triple]struct{}),
		bySubject:   make(map[Node][]int),
		byPredicate: make(map[Node][]int),
		byObject:    make(map[Node][]int),
	}
}

// Add inserts a triple. Adding a triple that is already present is a no-op
// and reports false.
func (g *Graph) Add(t Triple) (bool, error) {
	if !t.Subject.IsResource() || !t.Predicate.IsIRI() || t.Object.IsAny() {
		return false, fmt.Errorf("%w: %s", ErrInvalidTriple, t)
	}
	if _, ok := g.set[t]; ok {
		return false, nil
	}
	idx := len(g.triples)
	g.triples = append(g.triples, t)
	g.set[t] = struct{}{}
	g.bySubject[t.Subject] = append(g.bySubject[t.Subject], idx)
	g.byPredicate[t.Predicate] = append(g.byPredicate[t.Predicate], idx)
	g.byObject[t.Object] = append(g.byObject[t.Object], idx)
	return true, nil
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns every triple in insertion order. The slice must not be
// modified.
func (g *Graph) Triples() []Triple {
	return g.triples
}

// Match returns all triples matching the pattern, where Any in a position
// matches every node.
func (g *Graph) Match(s, p, o Node) []Triple {
	var out []Triple
	g.each(s, p, o, func(t Triple) bool {
		out = append(out, t)
		return true
	})
	return out
}

// Has reports whether at least one triple matches the pattern.
func (g *Graph) Has(s, p, o Node) bool {
	if !s.IsAny() && !p.IsAny() && !o.IsAny() {
		_, ok := g.set[Triple{Subject: s, Predicate: p, Object: o}]
		return ok
	}
	found := false
	g.each(s, p, o, func(Triple) bool {
		found = true
		return false
	})
	return found
}

// Value returns the object of the first triple matching (s, p, *).
func (g *Graph) Value(s, p Node) (Node, bool) {
	var v Node
	found := false
	g.each(s, p, Any, func(t Triple) bool {
		v = t.Object
		found = true
		return false
	})
	return v, found
}

// Objects returns the object of every triple matching (s, p, *).
func (g *Graph) Objects(s, p Node) []Node {
	var out []Node
	g.each(s, p, Any, func(t Triple) bool {
		out = append(out, t.Object)
		return true
	})
	return out
}

// Subjects returns the distinct subjects of triples matching (*, p, o) in
// first-seen order.
func (g *Graph) Subjects(p, o Node) []Node {
	seen := make(map[Node]struct{})
	var out []Node
	g.each(Any, p, o, func(t Triple) bool {
		if _, ok := seen[t.Subject]; !ok {
			seen[t.Subject] = struct{}{}
			out = append(out, t.Subject)
		}
		return true
	})
	return out
}

// PredicateObjects returns every (predicate, object) pair on s.
func (g *Graph) PredicateObjects(s Node) []PredicateObject {
	var out []PredicateObject
	g.each(s, Any, Any, func(t Triple) bool {
		out = append(out, PredicateObject{Predicate: t.Predicate, Object: t.Object})
		return true
	})
	return out
}

// each visits matching triples in insertion order until fn returns false.
// It scans the shortest index list among the bound positions.
func (g *Graph) each(s, p, o Node, fn func(Triple) bool) {
	var candidates []int
	indexed := false
	pick := func(bound Node, index map[Node][]int) {
		if bound.IsAny() {
			return
		}
		list := index[bound]
		if !indexed || len(list) < len(candidates) {
			candidates = list
			indexed = true
		}
	}
	pick(s, g.bySubject)
	pick(p, g.byPredicate)
	pick(o, g.byObject)

	if !indexed {
		for _, t := range g.triples {
			if !fn(t) {
				return
			}
		}
		return
	}
	for _, idx := range candidates {
		t := g.triples[idx]
		if t.Subject.matches(s) && t.Predicate.matches(p) && t.Object.matches(o) {
			if !fn(t) {
				return
			}
		}
	}
}
