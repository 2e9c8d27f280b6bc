// Package vocab holds the W3C vocabulary IRIs owlsym reads.
//
// RDF and RDFS IRIs are built from the namespace constants published by
// github.com/cayleygraph/quad/voc so the whole tree agrees on one spelling.
// OWL and SKOS terms are listed here directly.
//
// References:
// - RDF 1.1 Concepts: https://www.w3.org/TR/rdf11-concepts/
// - OWL 2 Mapping to RDF Graphs: https://www.w3.org/TR/owl2-mapping-to-rdf/
// - SKOS: https://www.w3.org/TR/skos-reference/
package vocab

import (
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"
)

// Namespaces
const (
	RDFNamespace  = rdf.NS
	RDFSNamespace = rdfs.NS
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	SKOSNamespace = "http://www.w3.org/2004/02/skos/core#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// RDF Standard IRIs
const (
	// RDFType relates a resource to a class it is an instance of.
	RDFType = RDFNamespace + "type"

	// RDFFirst, RDFRest and RDFNil build linked lists (collections).
	RDFFirst = RDFNamespace + "first"
	RDFRest  = RDFNamespace + "rest"
	RDFNil   = RDFNamespace + "nil"

	RDFLangString = RDFNamespace + "langString"
)

// RDF Schema Standard IRIs
const (
	RDFSSubClassOf    = RDFSNamespace + "subClassOf"
	RDFSSubPropertyOf = RDFSNamespace + "subPropertyOf"
	RDFSDomain        = RDFSNamespace + "domain"
	RDFSRange         = RDFSNamespace + "range"

	// RDFSLabel provides a human-readable name for a resource.
	RDFSLabel = RDFSNamespace + "label"

	// RDFSComment provides a human-readable description.
	RDFSComment = RDFSNamespace + "comment"
)

// OWL declaration classes
const (
	OWLClass              = OWLNamespace + "Class"
	OWLObjectProperty     = OWLNamespace + "ObjectProperty"
	OWLDatatypeProperty   = OWLNamespace + "DatatypeProperty"
	OWLAnnotationProperty = OWLNamespace + "AnnotationProperty"
	OWLRestriction        = OWLNamespace + "Restriction"
)

// OWL property characteristic classes
const (
	OWLFunctionalProperty        = OWLNamespace + "FunctionalProperty"
	OWLInverseFunctionalProperty = OWLNamespace + "InverseFunctionalProperty"
	OWLTransitiveProperty        = OWLNamespace + "TransitiveProperty"
	OWLSymmetricProperty         = OWLNamespace + "SymmetricProperty"
	OWLAsymmetricProperty        = OWLNamespace + "AsymmetricProperty"
	OWLReflexiveProperty         = OWLNamespace + "ReflexiveProperty"
	OWLIrreflexiveProperty       = OWLNamespace + "IrreflexiveProperty"
)

// OWL structural predicates
const (
	// OWLEquivalentClass indicates equivalent classes.
	OWLEquivalentClass = OWLNamespace + "equivalentClass"
	OWLInverseOf       = OWLNamespace + "inverseOf"

	OWLOnProperty = OWLNamespace + "onProperty"

	// Restriction fillers.
	OWLSomeValuesFrom          = OWLNamespace + "someValuesFrom"
	OWLAllValuesFrom           = OWLNamespace + "allValuesFrom"
	OWLHasValue                = OWLNamespace + "hasValue"
	OWLMinQualifiedCardinality = OWLNamespace + "minQualifiedCardinality"
	OWLMaxQualifiedCardinality = OWLNamespace + "maxQualifiedCardinality"
	OWLQualifiedCardinality    = OWLNamespace + "qualifiedCardinality"
	OWLMinCardinality          = OWLNamespace + "minCardinality"
	OWLMaxCardinality          = OWLNamespace + "maxCardinality"
	OWLCardinality             = OWLNamespace + "cardinality"

	// Boolean combinators and enumerations. Each points at an RDF list,
	// except complementOf which points at a single class expression.
	OWLIntersectionOf = OWLNamespace + "intersectionOf"
	OWLUnionOf        = OWLNamespace + "unionOf"
	OWLComplementOf   = OWLNamespace + "complementOf"
	OWLOneOf          = OWLNamespace + "oneOf"

	OWLNamedIndividual = OWLNamespace + "NamedIndividual"
)

// SKOS (Simple Knowledge Organization System) Standard IRIs
const (
	// SKOSPrefLabel provides the preferred lexical label for a resource.
	SKOSPrefLabel = SKOSNamespace + "prefLabel"

	// SKOSAltLabel provides an alternative lexical label for a resource.
	SKOSAltLabel = SKOSNamespace + "altLabel"
)

// XSD datatypes referenced by tests and literal rendering.
const (
	XSDString             = XSDNamespace + "string"
	XSDNonNegativeInteger = XSDNamespace + "nonNegativeInteger"
)
