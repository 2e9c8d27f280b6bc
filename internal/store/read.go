package store

import (
	"context"
	"fmt"

	"github.com/roach88/owlsym/internal/ir"
)

const selectExtraction = `
	SELECT id, source_file, table_hash, term_count, seq, schema_version, tool_version
	FROM extractions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExtraction(row rowScanner) (Extraction, error) {
	var e Extraction
	err := row.Scan(&e.ID, &e.SourceFile, &e.TableHash, &e.TermCount, &e.Seq, &e.SchemaVersion, &e.ToolVersion)
	if err != nil {
		return Extraction{}, err
	}
	return e, nil
}

// ReadExtraction retrieves an extraction by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadExtraction(ctx context.Context, id string) (Extraction, error) {
	e, err := scanExtraction(s.db.QueryRowContext(ctx, selectExtraction+` WHERE id = ?`, id))
	if err != nil {
		return Extraction{}, fmt.Errorf("read extraction %s: %w", id, err)
	}
	return e, nil
}

// LatestExtraction returns the most recently indexed extraction.
// Returns sql.ErrNoRows if the index is empty.
func (s *Store) LatestExtraction(ctx context.Context) (Extraction, error) {
	e, err := scanExtraction(s.db.QueryRowContext(ctx, selectExtraction+` ORDER BY seq DESC LIMIT 1`))
	if err != nil {
		return Extraction{}, fmt.Errorf("latest extraction: %w", err)
	}
	return e, nil
}

// ListExtractions returns every extraction, oldest first.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListExtractions(ctx context.Context) ([]Extraction, error) {
	rows, err := s.db.QueryContext(ctx, selectExtraction+` ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query extractions: %w", err)
	}
	defer rows.Close()

	out := []Extraction{}
	for rows.Next() {
		e, err := scanExtraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan extraction: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extractions: %w", err)
	}
	return out, nil
}

// ReadTable rebuilds the symbol table of an extraction, terms in their
// original order, and checks it against the stored content hash.
func (s *Store) ReadTable(ctx context.Context, id string) (*ir.SymbolTable, error) {
	ext, err := s.ReadExtraction(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT record FROM terms
		WHERE extraction_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query terms: %w", err)
	}
	defer rows.Close()

	var terms []ir.Term
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		t, err := unmarshalTerm(record)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate terms: %w", err)
	}

	st := ir.NewSymbolTable(ext.SourceFile, terms)
	hash, err := ir.TableHash(st)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", id, err)
	}
	if hash != ext.TableHash {
		return nil, fmt.Errorf("read table %s: content hash %s does not match stored %s", id, hash, ext.TableHash)
	}
	return st, nil
}

// ReadTerm retrieves one term of an extraction.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadTerm(ctx context.Context, extractionID, iri string) (ir.Term, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `
		SELECT record FROM terms
		WHERE extraction_id = ? AND iri = ?
	`, extractionID, iri).Scan(&record)
	if err != nil {
		return ir.Term{}, fmt.Errorf("read term %s: %w", iri, err)
	}
	return unmarshalTerm(record)
}
