package extract

import (
	"log/slog"
	"slices"

	"github.com/roach88/owlsym/internal/graph"
	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/vocab"
)

var (
	owlClass              = graph.IRI(vocab.OWLClass)
	owlObjectProperty     = graph.IRI(vocab.OWLObjectProperty)
	owlDatatypeProperty   = graph.IRI(vocab.OWLDatatypeProperty)
	owlAnnotationProperty = graph.IRI(vocab.OWLAnnotationProperty)
	owlEquivalentClass    = graph.IRI(vocab.OWLEquivalentClass)
	owlInverseOf          = graph.IRI(vocab.OWLInverseOf)
	rdfsSubClassOf        = graph.IRI(vocab.RDFSSubClassOf)
	rdfsSubPropertyOf     = graph.IRI(vocab.RDFSSubPropertyOf)
	rdfsDomain            = graph.IRI(vocab.RDFSDomain)
	rdfsRange             = graph.IRI(vocab.RDFSRange)
	rdfsLabel             = graph.IRI(vocab.RDFSLabel)
	rdfsComment           = graph.IRI(vocab.RDFSComment)
	skosPrefLabel         = graph.IRI(vocab.SKOSPrefLabel)
	skosAltLabel          = graph.IRI(vocab.SKOSAltLabel)
)

// Discovery is one (role, IRI) pair found in the graph.
type Discovery struct {
	Role ir.Role
	Node graph.Node
}

// Extractor builds the symbol table for one graph.
type Extractor struct {
	g          *graph.Graph
	summarizer *Summarizer
	logger     *slog.Logger
	observer   Observer
}

// New creates an Extractor over g. The graph must not change while the
// Extractor is in use.
func New(g *graph.Graph, opts ...Option) *Extractor {
	o := buildOptions(opts)
	return &Extractor{
		g:          g,
		summarizer: NewSummarizer(g, opts...),
		logger:     o.logger,
		observer:   o.observer,
	}
}

// Extract gathers every term and wraps them in a symbol table.
func (x *Extractor) Extract(sourceFile string) *ir.SymbolTable {
	terms := x.Terms()
	hits, misses := x.summarizer.CacheStats()
	x.logger.Debug("summary cache",
		"hits", hits,
		"misses", misses,
	)
	return ir.NewSymbolTable(sourceFile, terms)
}

// Terms returns one record per discovered IRI, in first-discovery order.
func (x *Extractor) Terms() []ir.Term {
	b := newBuilder()
	for _, d := range x.Discover() {
		x.observer.TermDiscovered(d.Role)
		x.merge(b, d)
	}
	return b.terms()
}

// Discover lists (role, IRI) pairs in discovery order: explicit classes,
// implicit classes (subjects of rdfs:subClassOf or owl:equivalentClass not
// already found), object, datatype and annotation properties, then
// individuals (typed subjects not found under any earlier role). Blank
// subjects are never discovered. An IRI may appear under several property
// roles.
func (x *Extractor) Discover() []Discovery {
	var out []Discovery
	seen := make(map[graph.Node]struct{})
	add := func(role ir.Role, n graph.Node) {
		out = append(out, Discovery{Role: role, Node: n})
		seen[n] = struct{}{}
	}
	discovered := func(n graph.Node) bool {
		_, ok := seen[n]
		return ok
	}

	for _, s := range x.g.Subjects(rdfType, owlClass) {
		if s.IsIRI() && !discovered(s) {
			add(ir.RoleClass, s)
		}
	}
	for _, s := range x.g.Subjects(graph.Any, graph.Any) {
		if !s.IsIRI() || discovered(s) {
			continue
		}
		if x.g.Has(s, rdfsSubClassOf, graph.Any) || x.g.Has(s, owlEquivalentClass, graph.Any) {
			add(ir.RoleClass, s)
		}
	}

	for _, cat := range []struct {
		role ir.Role
		typ  graph.Node
	}{
		{ir.RoleObjectProperty, owlObjectProperty},
		{ir.RoleDatatypeProperty, owlDatatypeProperty},
		{ir.RoleAnnotationProperty, owlAnnotationProperty},
	} {
		for _, s := range x.g.Subjects(rdfType, cat.typ) {
			if s.IsIRI() {
				add(cat.role, s)
			}
		}
	}

	for _, s := range x.g.Subjects(rdfType, graph.Any) {
		if s.IsIRI() && !discovered(s) {
			add(ir.RoleIndividual, s)
		}
	}
	return out
}

func (x *Extractor) merge(b *builder, d Discovery) {
	g := x.g
	t := b.entry(d.Node.Value)

	if !t.HasRole(d.Role) {
		t.Types = append(t.Types, d.Role)
	}
	t.Labels = appendUnique(t.Labels, literalValues(g, d.Node, rdfsLabel, skosPrefLabel)...)
	t.AltLabels = appendUnique(t.AltLabels, literalValues(g, d.Node, skosAltLabel)...)
	t.Comments = appendUnique(t.Comments, literalValues(g, d.Node, rdfsComment)...)
	t.Annotations.Merge(Annotations(g, d.Node))

	switch {
	case d.Role.IsProperty():
		t.Domains = appendUnique(t.Domains, stringForms(g, d.Node, rdfsDomain)...)
		t.Ranges = appendUnique(t.Ranges, stringForms(g, d.Node, rdfsRange)...)
		t.SubPropertyOf = appendUnique(t.SubPropertyOf, stringForms(g, d.Node, rdfsSubPropertyOf)...)
		t.InverseOf = appendUnique(t.InverseOf, stringForms(g, d.Node, owlInverseOf)...)
		t.PropertyCharacteristics = Characteristics(g, d.Node)
	case d.Role == ir.RoleClass:
		for _, sup := range g.Objects(d.Node, rdfsSubClassOf) {
			b.addSubClassOf(t, x.summarizer.Summarize(sup))
		}
		for _, eq := range g.Objects(d.Node, owlEquivalentClass) {
			b.addEquivalentClass(t, x.summarizer.Summarize(eq))
		}
	case d.Role == ir.RoleIndividual:
		t.IndividualTypes = append(t.IndividualTypes, stringForms(g, d.Node, rdfType)...)
	}
}

func literalValues(g *graph.Graph, s graph.Node, preds ...graph.Node) []string {
	var out []string
	for _, p := range preds {
		for _, o := range g.Objects(s, p) {
			if o.IsLiteral() {
				out = append(out, o.Value)
			}
		}
	}
	return out
}

func stringForms(g *graph.Graph, s, p graph.Node) []string {
	var out []string
	for _, o := range g.Objects(s, p) {
		out = append(out, o.String())
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

// builder owns the records under construction, keyed by IRI, and the
// order in which IRIs were first seen.
type builder struct {
	byIRI map[string]*ir.Term
	order []string
	// expression hashes already recorded per term, to collapse duplicates
	subHashes map[string]map[string]struct{}
	eqHashes  map[string]map[string]struct{}
}

func newBuilder() *builder {
	return &builder{
		byIRI:     make(map[string]*ir.Term),
		subHashes: make(map[string]map[string]struct{}),
		eqHashes:  make(map[string]map[string]struct{}),
	}
}

func (b *builder) entry(iri string) *ir.Term {
	if t, ok := b.byIRI[iri]; ok {
		return t
	}
	t := &ir.Term{IRI: iri}
	b.byIRI[iri] = t
	b.order = append(b.order, iri)
	return t
}

func (b *builder) addSubClassOf(t *ir.Term, e ir.Expression) {
	if b.firstSeen(b.subHashes, t.IRI, e) {
		t.SubClassOf = append(t.SubClassOf, e)
	}
}

func (b *builder) addEquivalentClass(t *ir.Term, e ir.Expression) {
	if b.firstSeen(b.eqHashes, t.IRI, e) {
		t.EquivalentClass = append(t.EquivalentClass, e)
	}
}

// firstSeen records e's content hash under iri and reports whether it was
// new. An expression that cannot be hashed is always kept.
func (b *builder) firstSeen(index map[string]map[string]struct{}, iri string, e ir.Expression) bool {
	h, err := ir.ExpressionHash(e)
	if err != nil {
		return true
	}
	set, ok := index[iri]
	if !ok {
		set = make(map[string]struct{})
		index[iri] = set
	}
	if _, dup := set[h]; dup {
		return false
	}
	set[h] = struct{}{}
	return true
}

func (b *builder) terms() []ir.Term {
	out := make([]ir.Term, 0, len(b.order))
	for _, iri := range b.order {
		out = append(out, *b.byIRI[iri])
	}
	return out
}
