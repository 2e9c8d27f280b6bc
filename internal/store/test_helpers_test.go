package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/owlsym/internal/extract"
	"github.com/roach88/owlsym/internal/graph"
	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/testutil"
	"github.com/roach88/owlsym/internal/vocab"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestTable extracts a small pets ontology.
func createTestTable(t *testing.T, sourceFile string) *ir.SymbolTable {
	t.Helper()
	ex := testutil.EX
	label := graph.IRI(vocab.RDFSLabel)
	b := testutil.NewBuilder(t)

	b.Type(ex("Dog"), vocab.OWLClass)
	b.Add(ex("Dog"), label, graph.LangLiteral("Dog", "en"))
	b.Add(ex("Dog"), graph.IRI(vocab.SKOSAltLabel), graph.Literal("Hound"))
	r := b.Blank()
	b.Add(ex("Dog"), graph.IRI(vocab.RDFSSubClassOf), r)
	b.Add(r, graph.IRI(vocab.OWLOnProperty), ex("hasOwner"))
	b.Add(r, graph.IRI(vocab.OWLSomeValuesFrom), ex("Person"))

	b.Type(ex("Person"), vocab.OWLClass)
	b.Add(ex("Person"), label, graph.Literal("Person"))

	b.Type(ex("hasOwner"), vocab.OWLObjectProperty)
	b.Add(ex("hasOwner"), label, graph.Literal("has owner"))
	b.Add(ex("hasOwner"), graph.IRI(vocab.RDFSDomain), ex("Dog"))

	b.Type(ex("Fido"), testutil.ExampleNS+"Dog")
	b.Add(ex("Fido"), label, graph.Literal("Fido the dog"))

	b.Type(graph.IRI("http://other.org/Cat"), vocab.OWLClass)

	return extract.New(b.Graph()).Extract(sourceFile)
}
