package store

import (
	"context"
	"fmt"

	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/queryir"
	"github.com/roach88/owlsym/internal/querysql"
)

// SearchSchema is the part of the index a search may touch.
var SearchSchema = queryir.Schema{
	"terms": {
		"extraction_id": queryir.Scalar,
		"position":      queryir.Scalar,
		"iri":           queryir.Scalar,
		"record":        queryir.Scalar,
		"roles":         queryir.List,
		"labels":        queryir.List,
	},
}

func newCompiler() *querysql.SQLCompiler {
	c := querysql.NewSQLCompiler(SearchSchema)
	c.OrderKeys["terms"] = "position ASC, iri ASC COLLATE BINARY"
	return c
}

// SearchParams filters the terms of one extraction. Zero fields do not
// filter.
type SearchParams struct {
	// ExtractionID selects the extraction; empty means the latest.
	ExtractionID string
	Role         ir.Role
	// Label matches any label or alt label containing it.
	Label string
	// IRIPrefix matches IRIs starting with it.
	IRIPrefix string
	Limit     int
}

// Hit is one matching term.
type Hit struct {
	ExtractionID string
	Position     int
	Term         ir.Term
}

// SearchQuery builds the query for p against a resolved extraction id.
func SearchQuery(extractionID string, p SearchParams) queryir.Select {
	preds := []queryir.Predicate{
		queryir.Equals{Field: "extraction_id", Value: ir.Str(extractionID)},
	}
	if p.Role != "" {
		preds = append(preds, queryir.AnyEquals{Field: "roles", Value: string(p.Role)})
	}
	if p.Label != "" {
		preds = append(preds, queryir.AnyContains{Field: "labels", Value: p.Label})
	}
	if p.IRIPrefix != "" {
		preds = append(preds, queryir.Prefix{Field: "iri", Value: p.IRIPrefix})
	}
	return queryir.Select{
		From:   "terms",
		Fields: []string{"position", "record"},
		Filter: queryir.And{Predicates: preds},
		Limit:  p.Limit,
	}
}

// Search returns the terms matching p in table order. An invalid search
// returns a *queryir.ValidationError; an unknown or missing extraction
// wraps sql.ErrNoRows.
func (s *Store) Search(ctx context.Context, p SearchParams) ([]Hit, error) {
	id := p.ExtractionID
	if id == "" {
		latest, err := s.LatestExtraction(ctx)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		id = latest.ID
	} else if _, err := s.ReadExtraction(ctx, id); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	query, params, err := s.compiler.Compile(SearchQuery(id, p))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	s.logger.Debug("search", "sql", query, "params", len(params))

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("search: query: %w", err)
	}
	defer rows.Close()

	hits := []Hit{}
	for rows.Next() {
		var (
			pos    int
			record string
		)
		if err := rows.Scan(&pos, &record); err != nil {
			return nil, fmt.Errorf("search: scan: %w", err)
		}
		t, err := unmarshalTerm(record)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		hits = append(hits, Hit{ExtractionID: id, Position: pos, Term: t})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: iterate: %w", err)
	}
	return hits, nil
}
