// Package ir holds the symbol-table model owlsym produces: expression
// records, term records and the table itself, plus their canonical JSON
// encoding and content hashes.
//
// This package imports nothing internal. The graph and extract packages
// build these values; the cli and store packages serialize and index them.
//
// Key constraints:
//   - Expression is sealed: exactly nine variants, discriminated by exprType
//   - Term arrays are never null in JSON
//   - No float values anywhere; cardinalities keep their lexical form
//   - Output JSON keeps string bytes as extracted; hashes see NFC strings
package ir
