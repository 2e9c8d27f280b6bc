package extract

import (
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/roach88/owlsym/internal/graph"
	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/vocab"
)

var (
	rdfType        = graph.IRI(vocab.RDFType)
	owlRestriction = graph.IRI(vocab.OWLRestriction)
	owlOnProperty  = graph.IRI(vocab.OWLOnProperty)
	owlIntersect   = graph.IRI(vocab.OWLIntersectionOf)
	owlUnion       = graph.IRI(vocab.OWLUnionOf)
	owlComplement  = graph.IRI(vocab.OWLComplementOf)
	owlOneOf       = graph.IRI(vocab.OWLOneOf)
)

// facetPredicates pairs each restriction facet with its OWL predicate, in
// ir.Facets order.
var facetPredicates = []struct {
	facet ir.RestrictionFacet
	pred  graph.Node
}{
	{ir.FacetSomeValuesFrom, graph.IRI(vocab.OWLSomeValuesFrom)},
	{ir.FacetAllValuesFrom, graph.IRI(vocab.OWLAllValuesFrom)},
	{ir.FacetHasValue, graph.IRI(vocab.OWLHasValue)},
	{ir.FacetMinQualifiedCardinality, graph.IRI(vocab.OWLMinQualifiedCardinality)},
	{ir.FacetMaxQualifiedCardinality, graph.IRI(vocab.OWLMaxQualifiedCardinality)},
	{ir.FacetQualifiedCardinality, graph.IRI(vocab.OWLQualifiedCardinality)},
	{ir.FacetMinCardinality, graph.IRI(vocab.OWLMinCardinality)},
	{ir.FacetMaxCardinality, graph.IRI(vocab.OWLMaxCardinality)},
	{ir.FacetCardinality, graph.IRI(vocab.OWLCardinality)},
}

// Summarizer turns graph nodes into ir.Expression records.
//
// Summaries of blank nodes are memoized. A blank node reached again while
// its own summary is still being built is rendered as a BNode, so cyclic
// expressions terminate. Summaries that contain such a cut depend on where
// the walk started and are not cached.
//
// A Summarizer is not safe for concurrent use.
type Summarizer struct {
	g             *graph.Graph
	literalDetail bool
	cache         *lru.Cache[graph.Node, ir.Expression]
	inProgress    map[graph.Node]struct{}
	logger        *slog.Logger
	observer      Observer

	hits, misses int
}

// NewSummarizer creates a Summarizer over g.
func NewSummarizer(g *graph.Graph, opts ...Option) *Summarizer {
	o := buildOptions(opts)
	s := &Summarizer{
		g:             g,
		literalDetail: o.literalDetail,
		inProgress:    make(map[graph.Node]struct{}),
		logger:        o.logger,
		observer:      o.observer,
	}
	if o.cacheSize > 0 {
		cache, err := lru.New[graph.Node, ir.Expression](o.cacheSize)
		if err != nil {
			o.logger.Warn("summary cache disabled", "size", o.cacheSize, "error", err)
		} else {
			s.cache = cache
		}
	}
	return s
}

// Summarize returns the expression record for node. It never fails:
// shapes it does not recognize become BNode or Unknown.
func (s *Summarizer) Summarize(node graph.Node) ir.Expression {
	e, _ := s.summarize(node)
	return e
}

// CacheStats reports summary cache hits and misses so far.
func (s *Summarizer) CacheStats() (hits, misses int) {
	return s.hits, s.misses
}

// summarize reports whether the result was cut short by a cycle.
func (s *Summarizer) summarize(node graph.Node) (ir.Expression, bool) {
	switch {
	case node.IsIRI():
		return ir.Named{IRI: node.Value}, false
	case node.IsLiteral():
		return s.literal(node), false
	case !node.IsBlank():
		return ir.Unknown{Value: node.String()}, false
	}

	if s.cache != nil {
		if e, ok := s.cache.Get(node); ok {
			s.hits++
			s.observer.CacheLookup(true)
			return e, false
		}
		s.misses++
		s.observer.CacheLookup(false)
	}

	if _, ok := s.inProgress[node]; ok {
		s.logger.Debug("cyclic expression cut", "node", node.String())
		s.observer.CycleBroken()
		return s.bnode(node), true
	}
	s.inProgress[node] = struct{}{}
	e, cut := s.blank(node)
	delete(s.inProgress, node)

	s.observer.ExpressionSummarized(e.Kind())
	if s.cache != nil && !cut {
		s.cache.Add(node, e)
	}
	return e, cut
}

func (s *Summarizer) literal(node graph.Node) ir.Literal {
	if !s.literalDetail {
		return ir.Literal{Value: node.Value}
	}
	return ir.Literal{Value: node.Value, Datatype: node.Datatype, Lang: node.Lang}
}

func (s *Summarizer) blank(node graph.Node) (ir.Expression, bool) {
	g := s.g
	if g.Has(node, rdfType, owlRestriction) || g.Has(node, owlOnProperty, graph.Any) {
		return s.restriction(node)
	}
	if head, ok := g.Value(node, owlIntersect); ok {
		ops, cut := s.list(head)
		return ir.Intersection{Operands: ops}, cut
	}
	if head, ok := g.Value(node, owlUnion); ok {
		ops, cut := s.list(head)
		return ir.Union{Operands: ops}, cut
	}
	if operand, ok := g.Value(node, owlComplement); ok {
		e, cut := s.summarize(operand)
		return ir.Complement{Operand: e}, cut
	}
	if head, ok := g.Value(node, owlOneOf); ok {
		members, cut := s.list(head)
		return ir.OneOf{Members: members}, cut
	}
	return s.bnode(node), false
}

func (s *Summarizer) restriction(node graph.Node) (ir.Expression, bool) {
	var r ir.Restriction
	if p, ok := s.g.Value(node, owlOnProperty); ok {
		r.OnProperty = p.String()
	}
	anyCut := false
	for _, fp := range facetPredicates {
		v, ok := s.g.Value(node, fp.pred)
		if !ok {
			continue
		}
		f := ir.Filler{Facet: fp.facet}
		if v.IsResource() {
			e, cut := s.summarize(v)
			f.Expr = e
			anyCut = anyCut || cut
		} else {
			f.Raw = v.String()
		}
		r.Fillers = append(r.Fillers, f)
	}
	return r, anyCut
}

func (s *Summarizer) list(head graph.Node) ([]ir.Expression, bool) {
	items, strategy := MaterializeList(s.g, head)
	s.observer.ListMaterialized(strategy)
	if strategy == ListManual {
		s.logger.Debug("malformed rdf list read by fallback walk",
			"head", head.String(),
			"items", len(items),
		)
	}

	out := make([]ir.Expression, 0, len(items))
	anyCut := false
	for _, item := range items {
		e, cut := s.summarize(item)
		out = append(out, e)
		anyCut = anyCut || cut
	}
	return out, anyCut
}

func (s *Summarizer) bnode(node graph.Node) ir.BNode {
	var props ir.Annotations
	for _, po := range s.g.PredicateObjects(node) {
		props.Append(po.Predicate.String(), po.Object.String())
	}
	return ir.BNode{Props: props}
}
