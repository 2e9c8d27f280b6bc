package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/owlsym/internal/graph"
	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/testutil"
	"github.com/roach88/owlsym/internal/vocab"
)

func iri(s string) graph.Node { return graph.IRI(s) }

func mustJSON(t *testing.T, e ir.Expression) string {
	t.Helper()
	data, err := ir.MarshalExpression(e)
	require.NoError(t, err)
	return string(data)
}

// recorder counts Observer events.
type recorder struct {
	roles  map[ir.Role]int
	kinds  map[ir.ExprType]int
	lists  map[ListStrategy]int
	cycles int
	hits   int
	misses int
}

func newRecorder() *recorder {
	return &recorder{
		roles: map[ir.Role]int{},
		kinds: map[ir.ExprType]int{},
		lists: map[ListStrategy]int{},
	}
}

func (r *recorder) TermDiscovered(role ir.Role) { r.roles[role]++ }
func (r *recorder) ExpressionSummarized(kind ir.ExprType) { r.kinds[kind]++ }
func (r *recorder) ListMaterialized(s ListStrategy) { r.lists[s]++ }
func (r *recorder) CycleBroken() { r.cycles++ }
func (r *recorder) CacheLookup(hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func TestSummarize_NamedAndLiteral(t *testing.T) {
	g := testutil.NewBuilder(t).Graph()
	s := NewSummarizer(g)

	assert.Equal(t, ir.Named{IRI: testutil.ExampleNS + "Dog"}, s.Summarize(ex("Dog")))
	assert.Equal(t, ir.Literal{Value: "chien", Lang: "fr"}, s.Summarize(graph.LangLiteral("chien", "fr")))
	assert.Equal(t, ir.Literal{Value: "4", Datatype: vocab.XSDNonNegativeInteger},
		s.Summarize(graph.TypedLiteral("4", vocab.XSDNonNegativeInteger)))
	assert.Equal(t, ir.ExprUnknown, s.Summarize(graph.Any).Kind())
}

func TestSummarize_LiteralDetailDisabled(t *testing.T) {
	s := NewSummarizer(testutil.NewBuilder(t).Graph(), WithLiteralDetail(false))
	assert.Equal(t, ir.Literal{Value: "chien"}, s.Summarize(graph.LangLiteral("chien", "fr")))
}

func TestSummarize_DogRestriction(t *testing.T) {
	b := testutil.NewBuilder(t)
	r := b.Blank()
	b.Type(r, vocab.OWLRestriction)
	b.Add(r, iri(vocab.OWLOnProperty), ex("hasOwner"))
	b.Add(r, iri(vocab.OWLSomeValuesFrom), ex("Person"))

	got := NewSummarizer(b.Graph()).Summarize(r)
	assert.Equal(t,
		`{"exprType":"Restriction","onProperty":"http://example.org/hasOwner","someValuesFrom":{"exprType":"Named","iri":"http://example.org/Person"}}`,
		mustJSON(t, got))
}

func TestSummarize_RestrictionWithoutTypeOrProperty(t *testing.T) {
	b := testutil.NewBuilder(t)

	// onProperty alone is enough to classify as a restriction.
	r1 := b.Blank()
	b.Add(r1, iri(vocab.OWLOnProperty), ex("hasLeg"))
	b.Add(r1, iri(vocab.OWLCardinality), graph.TypedLiteral("4", vocab.XSDNonNegativeInteger))

	// rdf:type alone, with no property, serializes onProperty as null.
	r2 := b.Blank()
	b.Type(r2, vocab.OWLRestriction)
	b.Add(r2, iri(vocab.OWLAllValuesFrom), ex("Bone"))

	s := NewSummarizer(b.Graph())
	assert.Equal(t,
		`{"cardinality":"4","exprType":"Restriction","onProperty":"http://example.org/hasLeg"}`,
		mustJSON(t, s.Summarize(r1)))
	assert.Equal(t,
		`{"allValuesFrom":{"exprType":"Named","iri":"http://example.org/Bone"},"exprType":"Restriction","onProperty":null}`,
		mustJSON(t, s.Summarize(r2)))
}

func TestSummarize_RestrictionFacetOrder(t *testing.T) {
	b := testutil.NewBuilder(t)
	r := b.Blank()
	b.Add(r, iri(vocab.OWLOnProperty), ex("p"))
	b.Add(r, iri(vocab.OWLMaxCardinality), graph.Literal("3"))
	b.Add(r, iri(vocab.OWLHasValue), ex("v"))
	b.Add(r, iri(vocab.OWLMinCardinality), graph.Literal("1"))

	got, ok := NewSummarizer(b.Graph()).Summarize(r).(ir.Restriction)
	require.True(t, ok)
	require.Len(t, got.Fillers, 3)
	assert.Equal(t, ir.FacetHasValue, got.Fillers[0].Facet)
	assert.Equal(t, ir.FacetMinCardinality, got.Fillers[1].Facet)
	assert.Equal(t, ir.FacetMaxCardinality, got.Fillers[2].Facet)
}

func TestSummarize_PetUnion(t *testing.T) {
	b := testutil.NewBuilder(t)
	u := b.Blank()
	b.Add(u, iri(vocab.OWLUnionOf), b.List(ex("Cat"), ex("Dog")))

	assert.Equal(t,
		`{"exprType":"Union","operands":[{"exprType":"Named","iri":"http://example.org/Cat"},{"exprType":"Named","iri":"http://example.org/Dog"}]}`,
		mustJSON(t, NewSummarizer(b.Graph()).Summarize(u)))
}

func TestSummarize_BooleanCombinations(t *testing.T) {
	b := testutil.NewBuilder(t)
	inner := b.Blank()
	b.Add(inner, iri(vocab.OWLComplementOf), ex("Cat"))
	inter := b.Blank()
	b.Add(inter, iri(vocab.OWLIntersectionOf), b.List(ex("Animal"), inner))
	enum := b.Blank()
	b.Add(enum, iri(vocab.OWLOneOf), b.List(ex("red"), graph.Literal("green")))

	s := NewSummarizer(b.Graph())
	assert.Equal(t, ir.Intersection{Operands: []ir.Expression{
		ir.Named{IRI: testutil.ExampleNS + "Animal"},
		ir.Complement{Operand: ir.Named{IRI: testutil.ExampleNS + "Cat"}},
	}}, s.Summarize(inter))
	assert.Equal(t, ir.OneOf{Members: []ir.Expression{
		ir.Named{IRI: testutil.ExampleNS + "red"},
		ir.Literal{Value: "green"},
	}}, s.Summarize(enum))
}

func TestSummarize_OpaqueBlankNode(t *testing.T) {
	b := testutil.NewBuilder(t)
	n := b.Blank()
	other := b.Blank()
	b.Add(n, ex("p"), graph.Literal("x"))
	b.Add(n, ex("p"), ex("y"))
	b.Add(n, ex("q"), other)

	got, ok := NewSummarizer(b.Graph()).Summarize(n).(ir.BNode)
	require.True(t, ok)
	assert.Equal(t, []string{testutil.ExampleNS + "p", testutil.ExampleNS + "q"}, got.Props.Keys())
	assert.Equal(t, []string{"x", testutil.ExampleNS + "y"}, got.Props.Get(testutil.ExampleNS+"p"))
	assert.Equal(t, []string{"_:b1"}, got.Props.Get(testutil.ExampleNS+"q"))
}

func TestSummarize_OpaqueBlankNodeKeepsEveryPair(t *testing.T) {
	b := testutil.NewBuilder(t)
	n := b.Blank()
	b.Add(n, ex("p"), graph.TypedLiteral("1", vocab.XSDNamespace+"int"))
	b.Add(n, ex("p"), graph.Literal("1"))

	got, ok := NewSummarizer(b.Graph()).Summarize(n).(ir.BNode)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "1"}, got.Props.Get(testutil.ExampleNS+"p"))
}

func TestSummarize_MalformedOperandListTruncates(t *testing.T) {
	b := testutil.NewBuilder(t)
	u := b.Blank()
	b.Add(u, iri(vocab.OWLUnionOf), graph.Blank("c1"))
	b.Add(graph.Blank("c1"), first, ex("Cat")).Add(graph.Blank("c1"), rest, graph.Blank("c2"))
	b.Add(graph.Blank("c2"), first, ex("Dog"))

	rec := newRecorder()
	got := NewSummarizer(b.Graph(), WithObserver(rec)).Summarize(u)
	assert.Equal(t, ir.Union{Operands: []ir.Expression{
		ir.Named{IRI: testutil.ExampleNS + "Cat"},
		ir.Named{IRI: testutil.ExampleNS + "Dog"},
	}}, got)
	assert.Equal(t, 1, rec.lists[ListManual])
}

func TestSummarize_CyclicExpressionTerminates(t *testing.T) {
	b := testutil.NewBuilder(t)
	a := b.Blank()
	c := b.Blank()
	b.Add(a, iri(vocab.OWLComplementOf), c)
	b.Add(c, iri(vocab.OWLComplementOf), a)

	rec := newRecorder()
	s := NewSummarizer(b.Graph(), WithObserver(rec))
	got := s.Summarize(a)

	outer, ok := got.(ir.Complement)
	require.True(t, ok)
	inner, ok := outer.Operand.(ir.Complement)
	require.True(t, ok)
	cut, ok := inner.Operand.(ir.BNode)
	require.True(t, ok)
	assert.Equal(t, []string{"_:b1"}, cut.Props.Get(vocab.OWLComplementOf))
	assert.Equal(t, 1, rec.cycles)
}

func TestSummarize_CyclicRestrictionTerminates(t *testing.T) {
	b := testutil.NewBuilder(t)
	r := b.Blank()
	b.Add(r, iri(vocab.OWLOnProperty), ex("knows"))
	b.Add(r, iri(vocab.OWLSomeValuesFrom), r)

	got := NewSummarizer(b.Graph()).Summarize(r)
	assert.Equal(t, ir.ExprRestriction, got.Kind())
}

func TestSummarize_Idempotent(t *testing.T) {
	b := testutil.NewBuilder(t)
	r := b.Blank()
	b.Add(r, iri(vocab.OWLOnProperty), ex("hasOwner"))
	b.Add(r, iri(vocab.OWLSomeValuesFrom), b.Blank())
	u := b.Blank()
	b.Add(u, iri(vocab.OWLUnionOf), b.List(ex("Cat"), r))
	a := b.Blank()
	c := b.Blank()
	b.Add(a, iri(vocab.OWLComplementOf), c)
	b.Add(c, iri(vocab.OWLComplementOf), a)

	for _, size := range []int{0, DefaultCacheSize} {
		s := NewSummarizer(b.Graph(), WithCacheSize(size))
		for _, n := range []graph.Node{r, u, a, c} {
			first := mustJSON(t, s.Summarize(n))
			second := mustJSON(t, s.Summarize(n))
			assert.Equal(t, first, second)
			assert.Equal(t, first, mustJSON(t, NewSummarizer(b.Graph(), WithCacheSize(0)).Summarize(n)),
				"cached result must match an uncached summary")
		}
	}
}

func TestSummarize_CacheHits(t *testing.T) {
	b := testutil.NewBuilder(t)
	r := b.Blank()
	b.Add(r, iri(vocab.OWLOnProperty), ex("hasOwner"))

	rec := newRecorder()
	s := NewSummarizer(b.Graph(), WithObserver(rec))
	s.Summarize(r)
	s.Summarize(r)

	hits, misses := s.CacheStats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, rec.kinds[ir.ExprRestriction])

	s = NewSummarizer(b.Graph(), WithCacheSize(0))
	s.Summarize(r)
	hits, misses = s.CacheStats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
