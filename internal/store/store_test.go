package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/queryir"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, s.Close())
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range []string{"extractions", "terms"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %q missing", table)
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	assert.NoError(t, s.verifyPragma(ctx, "journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma(ctx, "foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma(ctx, "busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma(ctx, "user_version", "1"))
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	assert.ErrorContains(t, err, "newer than supported")
}

func TestOpenReadOnly_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := OpenReadOnly(path)
	require.ErrorIs(t, err, ErrNoIndex)

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "OpenReadOnly created %s", path)
}

func TestOpenReadOnly_UninitializedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := OpenReadOnly(path)
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestOpenReadOnly_SearchesExistingIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	w, err := Open(path)
	require.NoError(t, err)
	ext, _, err := w.WriteTable(ctx, createTestTable(t, "pets.ttl"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer r.Close()

	hits, err := r.Search(ctx, SearchParams{})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, ext.ID, hits[0].ExtractionID)

	_, _, err = r.WriteTable(ctx, createTestTable(t, "other.ttl"))
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestOpenReadOnly_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = OpenReadOnly(path)
	assert.ErrorContains(t, err, "newer than supported")
}

func TestClose_NilDB(t *testing.T) {
	var s Store
	assert.NoError(t, s.Close())
}

func TestWriteTable_InsertsExtraction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	st := createTestTable(t, "pets.ttl")

	ext, inserted, err := s.WriteTable(ctx, st)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "pets.ttl", ext.SourceFile)
	assert.Equal(t, st.TermCount, ext.TermCount)
	assert.Equal(t, int64(1), ext.Seq)
	assert.Equal(t, ir.SchemaVersion, ext.SchemaVersion)

	hash, err := ir.TableHash(st)
	require.NoError(t, err)
	assert.Equal(t, hash, ext.TableHash)
	assert.Equal(t, ExtractionID("pets.ttl", hash), ext.ID)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM terms WHERE extraction_id = ?", ext.ID).Scan(&count))
	assert.Equal(t, st.TermCount, count)
}

func TestWriteTable_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, inserted, err := s.WriteTable(ctx, createTestTable(t, "pets.ttl"))
	require.NoError(t, err)
	require.True(t, inserted)

	second, inserted, err := s.WriteTable(ctx, createTestTable(t, "pets.ttl"))
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first, second)

	all, err := s.ListExtractions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWriteTable_DifferentSourceIsNewExtraction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	a, _, err := s.WriteTable(ctx, createTestTable(t, "a.ttl"))
	require.NoError(t, err)
	b, inserted, err := s.WriteTable(ctx, createTestTable(t, "b.ttl"))
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, int64(2), b.Seq)

	latest, err := s.LatestExtraction(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, latest.ID)
}

func TestExtractionID_Deterministic(t *testing.T) {
	assert.Equal(t, ExtractionID("a.ttl", "h"), ExtractionID("a.ttl", "h"))
	assert.NotEqual(t, ExtractionID("a.ttl", "h"), ExtractionID("a.tt", "lh"))
}

func TestReadTable_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	st := createTestTable(t, "pets.ttl")

	ext, _, err := s.WriteTable(ctx, st)
	require.NoError(t, err)

	got, err := s.ReadTable(ctx, ext.ID)
	require.NoError(t, err)

	want, err := st.Encode(false)
	require.NoError(t, err)
	have, err := got.Encode(false)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(have))
}

func TestReadTable_DetectsTampering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ext, _, err := s.WriteTable(ctx, createTestTable(t, "pets.ttl"))
	require.NoError(t, err)

	_, err = s.db.Exec("DELETE FROM terms WHERE extraction_id = ? AND position = 0", ext.ID)
	require.NoError(t, err)

	_, err = s.ReadTable(ctx, ext.ID)
	assert.ErrorContains(t, err, "does not match")
}

func TestReadTerm_RejectsNonCanonicalRecord(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ext, _, err := s.WriteTable(ctx, createTestTable(t, "pets.ttl"))
	require.NoError(t, err)

	_, err = s.db.Exec(`UPDATE terms SET record = ' ' || record WHERE extraction_id = ? AND iri = ?`,
		ext.ID, "http://example.org/Dog")
	require.NoError(t, err)

	_, err = s.ReadTerm(ctx, ext.ID, "http://example.org/Dog")
	assert.ErrorIs(t, err, errNonCanonicalRecord)
}

func TestReadTable_KeepsDecomposedLabels(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	st := ir.NewSymbolTable("cafe.ttl", []ir.Term{{
		IRI:    "http://example.org/Cafe",
		Types:  []ir.Role{ir.RoleClass},
		Labels: []string{"Cafe\u0301"},
	}})

	ext, _, err := s.WriteTable(ctx, st)
	require.NoError(t, err)

	got, err := s.ReadTable(ctx, ext.ID)
	require.NoError(t, err)
	require.Len(t, got.Terms, 1)
	assert.Equal(t, []string{"Cafe\u0301"}, got.Terms[0].Labels)
}

func TestReadTerm(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ext, _, err := s.WriteTable(ctx, createTestTable(t, "pets.ttl"))
	require.NoError(t, err)

	term, err := s.ReadTerm(ctx, ext.ID, "http://example.org/Dog")
	require.NoError(t, err)
	assert.Equal(t, []ir.Role{ir.RoleClass}, term.Types)
	assert.Equal(t, []string{"Hound"}, term.AltLabels)
	require.Len(t, term.SubClassOf, 1)
	assert.Equal(t, ir.ExprRestriction, term.SubClassOf[0].Kind())

	_, err = s.ReadTerm(ctx, ext.ID, "http://example.org/Nope")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestReadExtraction_NotFound(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.ReadExtraction(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = s.LatestExtraction(ctx)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	all, err := s.ListExtractions(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestDeleteExtraction_CascadesToTerms(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ext, _, err := s.WriteTable(ctx, createTestTable(t, "pets.ttl"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteExtraction(ctx, ext.ID))
	require.NoError(t, s.DeleteExtraction(ctx, ext.ID))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM terms").Scan(&count))
	assert.Zero(t, count)
}

func TestSearch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ext, _, err := s.WriteTable(ctx, createTestTable(t, "pets.ttl"))
	require.NoError(t, err)

	iris := func(hits []Hit) []string {
		out := []string{}
		for _, h := range hits {
			out = append(out, h.Term.IRI)
		}
		return out
	}

	tests := []struct {
		name   string
		params SearchParams
		want   []string
	}{
		{"all terms in table order", SearchParams{}, []string{
			"http://example.org/Dog", "http://example.org/Person", "http://other.org/Cat",
			"http://example.org/hasOwner", "http://example.org/Fido",
		}},
		{"by role", SearchParams{Role: ir.RoleClass}, []string{
			"http://example.org/Dog", "http://example.org/Person", "http://other.org/Cat",
		}},
		{"label substring is case-insensitive", SearchParams{Label: "DOG"}, []string{
			"http://example.org/Dog", "http://example.org/Fido",
		}},
		{"alt labels are searched", SearchParams{Label: "hound"}, []string{"http://example.org/Dog"}},
		{"iri prefix", SearchParams{IRIPrefix: "http://other.org/"}, []string{"http://other.org/Cat"}},
		{"combined", SearchParams{Role: ir.RoleIndividual, Label: "dog"}, []string{"http://example.org/Fido"}},
		{"limit", SearchParams{Limit: 2}, []string{"http://example.org/Dog", "http://example.org/Person"}},
		{"wildcards are literal", SearchParams{Label: "%"}, []string{}},
		{"explicit extraction", SearchParams{ExtractionID: ext.ID, Role: ir.RoleObjectProperty}, []string{
			"http://example.org/hasOwner",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := s.Search(ctx, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, iris(hits))
			for _, h := range hits {
				assert.Equal(t, ext.ID, h.ExtractionID)
			}
		})
	}
}

func TestSearch_UsesLatestExtraction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	_, _, err := s.WriteTable(ctx, createTestTable(t, "old.ttl"))
	require.NoError(t, err)
	newer, _, err := s.WriteTable(ctx, createTestTable(t, "new.ttl"))
	require.NoError(t, err)

	hits, err := s.Search(ctx, SearchParams{Limit: 1})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, newer.ID, hits[0].ExtractionID)
	assert.Equal(t, 0, hits[0].Position)
}

func TestSearch_Errors(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Search(ctx, SearchParams{})
	assert.ErrorIs(t, err, sql.ErrNoRows, "empty index")

	_, _, err = s.WriteTable(ctx, createTestTable(t, "pets.ttl"))
	require.NoError(t, err)

	_, err = s.Search(ctx, SearchParams{ExtractionID: "nope"})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = s.Search(ctx, SearchParams{Limit: -1})
	var verr *queryir.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSearchQuery_OnlyFiltersWhatIsSet(t *testing.T) {
	q := SearchQuery("id", SearchParams{})
	and, ok := q.Filter.(queryir.And)
	require.True(t, ok)
	assert.Len(t, and.Predicates, 1)

	q = SearchQuery("id", SearchParams{Role: ir.RoleClass, Label: "x", IRIPrefix: "y", Limit: 3})
	and = q.Filter.(queryir.And)
	assert.Len(t, and.Predicates, 4)
	assert.Equal(t, 3, q.Limit)
	assert.NoError(t, queryir.Validate(q, SearchSchema))
}
