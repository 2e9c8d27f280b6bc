package extract

import (
	"github.com/roach88/owlsym/internal/graph"
	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/vocab"
)

// structuralPredicates are reported in dedicated term fields and so are
// left out of annotations.
var structuralPredicates = map[graph.Node]struct{}{
	graph.IRI(vocab.RDFType):            {},
	graph.IRI(vocab.RDFSSubClassOf):     {},
	graph.IRI(vocab.OWLEquivalentClass): {},
	graph.IRI(vocab.RDFSDomain):         {},
	graph.IRI(vocab.RDFSRange):          {},
	graph.IRI(vocab.RDFSSubPropertyOf):  {},
}

// Annotations collects every other predicate/object pair on subject,
// grouped by predicate IRI with values as string forms.
func Annotations(g *graph.Graph, subject graph.Node) ir.Annotations {
	var ann ir.Annotations
	for _, po := range g.PredicateObjects(subject) {
		if _, skip := structuralPredicates[po.Predicate]; skip {
			continue
		}
		ann.Add(po.Predicate.String(), po.Object.String())
	}
	return ann
}
