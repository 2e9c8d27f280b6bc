package testutil

import (
	"fmt"
	"testing"

	"github.com/roach88/owlsym/internal/graph"
	"github.com/roach88/owlsym/internal/vocab"
)

// ExampleNS is the namespace used for test resources.
const ExampleNS = "http://example.org/"

// EX returns the IRI node ExampleNS + local.
func EX(local string) graph.Node {
	return graph.IRI(ExampleNS + local)
}

// Builder assembles a graph triple by triple, failing the test on any
// invalid triple. Blank nodes are numbered b0, b1, ... in creation order,
// so the same sequence of calls always builds the same graph.
type Builder struct {
	t    testing.TB
	g    *graph.Graph
	next int
}

// NewBuilder creates a Builder over an empty graph.
func NewBuilder(t testing.TB) *Builder {
	return &Builder{t: t, g: graph.New()}
}

// Add inserts one triple.
func (b *Builder) Add(s, p, o graph.Node) *Builder {
	b.t.Helper()
	if _, err := b.g.Add(graph.Triple{Subject: s, Predicate: p, Object: o}); err != nil {
		b.t.Fatalf("testutil: %v", err)
	}
	return b
}

// Type asserts s rdf:type typeIRI.
func (b *Builder) Type(s graph.Node, typeIRI string) *Builder {
	b.t.Helper()
	return b.Add(s, graph.IRI(vocab.RDFType), graph.IRI(typeIRI))
}

// Blank returns a fresh blank node.
func (b *Builder) Blank() graph.Node {
	n := graph.Blank(fmt.Sprintf("b%d", b.next))
	b.next++
	return n
}

// List writes a well-formed RDF list of items and returns its head
// (rdf:nil for an empty list).
func (b *Builder) List(items ...graph.Node) graph.Node {
	b.t.Helper()
	head := graph.Nil()
	for i := len(items) - 1; i >= 0; i-- {
		cell := graph.Blank(fmt.Sprintf("l%d", b.next))
		b.next++
		b.Add(cell, graph.IRI(vocab.RDFFirst), items[i])
		b.Add(cell, graph.IRI(vocab.RDFRest), head)
		head = cell
	}
	return head
}

// Graph returns the graph built so far.
func (b *Builder) Graph() *graph.Graph {
	return b.g
}
