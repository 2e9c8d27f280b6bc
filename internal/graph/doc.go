// Package graph is the in-memory RDF graph owlsym extracts from.
//
// It provides:
//   - Node: a comparable sum type over IRIs, blank nodes and literals
//   - Graph: an insertion-ordered triple set indexed by subject, predicate
//     and object, with wildcard pattern queries (Match, Has, Value,
//     Objects, Subjects, PredicateObjects)
//   - Collection: a strict RDF list reader that reports malformed or cyclic
//     lists as errors instead of guessing
//   - ParseFile/Decode: Turtle and RDF/XML via github.com/knakk/rdf,
//     N-Triples and N-Quads via github.com/cayleygraph/quad/nquads
//
// Every query returns results in triple insertion order. Two parses of the
// same document therefore produce identical query results, which is what
// makes the extracted symbol table reproducible.
package graph
