package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/owlsym/internal/ir"
)

// extractionNamespace scopes name-based extraction UUIDs.
var extractionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/roach88/owlsym/extraction"))

// ExtractionID derives the id of an extraction from its source file and
// table hash. The same content always gets the same id.
func ExtractionID(sourceFile, tableHash string) string {
	data := append([]byte(sourceFile), 0x00)
	data = append(data, tableHash...)
	return uuid.NewSHA1(extractionNamespace, data).String()
}

// Extraction describes one indexed symbol table.
type Extraction struct {
	ID            string
	SourceFile    string
	TableHash     string
	TermCount     int
	Seq           int64
	SchemaVersion string
	ToolVersion   string
}

// WriteTable indexes a symbol table. It returns the extraction and whether
// a new record was inserted.
//
// Writing a table whose source file and content hash are already indexed
// is a no-op that returns the existing extraction with inserted=false.
func (s *Store) WriteTable(ctx context.Context, st *ir.SymbolTable) (ext Extraction, inserted bool, err error) {
	if s.readOnly {
		return Extraction{}, false, ErrReadOnly
	}
	hash, err := ir.TableHash(st)
	if err != nil {
		return Extraction{}, false, fmt.Errorf("write table: %w", err)
	}
	id := ExtractionID(st.SourceFile, hash)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Extraction{}, false, fmt.Errorf("write table: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM extractions`).Scan(&seq); err != nil {
		return Extraction{}, false, fmt.Errorf("write table: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO extractions
		(id, source_file, table_hash, term_count, seq, schema_version, tool_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		id,
		st.SourceFile,
		hash,
		st.TermCount,
		seq,
		ir.SchemaVersion,
		ir.ToolVersion,
	)
	if err != nil {
		return Extraction{}, false, fmt.Errorf("write table: insert extraction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Extraction{}, false, fmt.Errorf("write table: rows affected: %w", err)
	}

	if affected == 0 {
		// Already indexed; tx rolls back.
		existing, err := scanExtraction(tx.QueryRowContext(ctx, selectExtraction+` WHERE id = ?`, id))
		if err != nil {
			return Extraction{}, false, fmt.Errorf("write table: read existing: %w", err)
		}
		s.logger.Debug("extraction already indexed", "id", id, "source", st.SourceFile)
		return existing, false, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO terms (extraction_id, position, iri, roles, labels, record)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Extraction{}, false, fmt.Errorf("write table: prepare: %w", err)
	}
	defer stmt.Close()

	for i := range st.Terms {
		t := &st.Terms[i]
		record, err := marshalTerm(t)
		if err != nil {
			return Extraction{}, false, fmt.Errorf("write table: %w", err)
		}
		roles, err := marshalRoles(t.Types)
		if err != nil {
			return Extraction{}, false, fmt.Errorf("write table: %w", err)
		}
		labels, err := marshalLabels(t)
		if err != nil {
			return Extraction{}, false, fmt.Errorf("write table: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, t.IRI, roles, labels, record); err != nil {
			return Extraction{}, false, fmt.Errorf("write table: insert term %s: %w", t.IRI, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Extraction{}, false, fmt.Errorf("write table: commit: %w", err)
	}

	s.logger.Debug("extraction indexed", "id", id, "source", st.SourceFile, "terms", st.TermCount, "seq", seq)
	return Extraction{
		ID:            id,
		SourceFile:    st.SourceFile,
		TableHash:     hash,
		TermCount:     st.TermCount,
		Seq:           seq,
		SchemaVersion: ir.SchemaVersion,
		ToolVersion:   ir.ToolVersion,
	}, true, nil
}

// DeleteExtraction removes an extraction and its terms. Deleting an
// unknown id is not an error.
func (s *Store) DeleteExtraction(ctx context.Context, id string) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM extractions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete extraction %s: %w", id, err)
	}
	return nil
}
