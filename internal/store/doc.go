// Package store is a SQLite index of extracted symbol tables.
//
// Each extraction is one row in extractions and one row per term in terms.
// Extraction ids are name-based UUIDs of (source file, table hash), so
// indexing the same content twice is a no-op that returns the same id.
//
// # Tables
//
//   - extractions: id, source_file, table_hash, term_count, seq
//   - terms: extraction_id, position, iri, roles, labels, record
//
// seq is a logical counter assigned on insert; "latest" means highest seq,
// never wall-clock time. Term records are canonical JSON, and ReadTable
// verifies the rebuilt table against the stored hash.
//
// Searches are expressed in internal/queryir and compiled by
// internal/querysql; every result set has a stable ORDER BY.
//
// # Connections
//
// Open is used by writers: WAL journal, synchronous=NORMAL, a 5s busy
// timeout and foreign keys, all set per connection through the DSN.
// OpenReadOnly is used by search; it opens mode=ro and reports ErrNoIndex
// rather than creating an empty file.
package store
