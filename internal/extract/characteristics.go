package extract

import (
	"github.com/roach88/owlsym/internal/graph"
	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/vocab"
)

var characteristicTypes = []struct {
	typ  graph.Node
	char ir.Characteristic
}{
	{graph.IRI(vocab.OWLFunctionalProperty), ir.Functional},
	{graph.IRI(vocab.OWLInverseFunctionalProperty), ir.InverseFunctional},
	{graph.IRI(vocab.OWLTransitiveProperty), ir.Transitive},
	{graph.IRI(vocab.OWLSymmetricProperty), ir.Symmetric},
	{graph.IRI(vocab.OWLAsymmetricProperty), ir.Asymmetric},
	{graph.IRI(vocab.OWLReflexiveProperty), ir.Reflexive},
	{graph.IRI(vocab.OWLIrreflexiveProperty), ir.Irreflexive},
}

// Characteristics returns the characteristics asserted on prop via
// rdf:type, in ir.Characteristics order.
func Characteristics(g *graph.Graph, prop graph.Node) []ir.Characteristic {
	out := []ir.Characteristic{}
	for _, ct := range characteristicTypes {
		if g.Has(prop, rdfType, ct.typ) {
			out = append(out, ct.char)
		}
	}
	return out
}
