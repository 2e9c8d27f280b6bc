package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/owlsym/internal/graph"
	"github.com/roach88/owlsym/internal/vocab"
)

func TestBuilder_BlankNodesAreSequential(t *testing.T) {
	b := NewBuilder(t)
	assert.Equal(t, graph.Blank("b0"), b.Blank())
	assert.Equal(t, graph.Blank("b1"), b.Blank())
}

func TestBuilder_ListIsWellFormed(t *testing.T) {
	b := NewBuilder(t)
	head := b.List(EX("A"), EX("B"), EX("C"))

	items, err := b.Graph().Collection(head)
	require.NoError(t, err)
	assert.Equal(t, []graph.Node{EX("A"), EX("B"), EX("C")}, items)
}

func TestBuilder_EmptyListIsNil(t *testing.T) {
	b := NewBuilder(t)
	assert.Equal(t, graph.Nil(), b.List())
	assert.Zero(t, b.Graph().Len())
}

func TestBuilder_TypeAndChaining(t *testing.T) {
	b := NewBuilder(t)
	b.Type(EX("Dog"), vocab.OWLClass).
		Add(EX("Dog"), graph.IRI(vocab.RDFSLabel), graph.Literal("Dog"))

	g := b.Graph()
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Has(EX("Dog"), graph.IRI(vocab.RDFType), graph.IRI(vocab.OWLClass)))
}
