// Package extract builds an owlsym symbol table from an RDF graph.
//
// The Extractor discovers classes, properties and individuals, merges
// everything known about each IRI into a single ir.Term, and summarizes
// anonymous class expressions (restrictions, boolean combinations,
// enumerations) into ir.Expression records.
//
// Extraction is best-effort: malformed RDF lists are read as far as they
// go, missing restriction facets are omitted and unrecognized shapes
// become BNode or Unknown records. Nothing in this package returns an
// error.
package extract
