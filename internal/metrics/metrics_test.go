package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/owlsym/internal/extract"
	"github.com/roach88/owlsym/internal/graph"
	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/testutil"
	"github.com/roach88/owlsym/internal/vocab"
)

func TestRecorder_CountsEvents(t *testing.T) {
	r := New()
	r.TermDiscovered(ir.RoleClass)
	r.TermDiscovered(ir.RoleClass)
	r.TermDiscovered(ir.RoleIndividual)
	r.ExpressionSummarized(ir.ExprUnion)
	r.ListMaterialized(extract.ListManual)
	r.CycleBroken()
	r.CacheLookup(true)
	r.CacheLookup(false)
	r.CacheLookup(false)

	counts, err := r.Counts()
	require.NoError(t, err)
	assert.Equal(t, 2.0, counts["owlsym_terms_discovered_total{role=Class}"])
	assert.Equal(t, 1.0, counts["owlsym_terms_discovered_total{role=Individual}"])
	assert.Equal(t, 1.0, counts["owlsym_expressions_summarized_total{expr_type=Union}"])
	assert.Equal(t, 1.0, counts["owlsym_lists_materialized_total{strategy=manual}"])
	assert.Equal(t, 1.0, counts["owlsym_cycles_broken_total"])
	assert.Equal(t, 1.0, counts["owlsym_summary_cache_lookups_total{result=hit}"])
	assert.Equal(t, 2.0, counts["owlsym_summary_cache_lookups_total{result=miss}"])
}

func TestRecorder_ObservesExtraction(t *testing.T) {
	b := testutil.NewBuilder(t)
	b.Type(testutil.EX("Dog"), vocab.OWLClass)
	u := b.Blank()
	b.Add(testutil.EX("Pet"), testutil.EX("x"), testutil.EX("y"))
	b.Add(testutil.EX("Dog"), graph.IRI(vocab.OWLEquivalentClass), u)
	b.Add(u, graph.IRI(vocab.OWLUnionOf), b.List(testutil.EX("Cat"), testutil.EX("Wolf")))

	r := New()
	st := extract.New(b.Graph(), extract.WithObserver(r)).Extract("pets.ttl")
	r.ObserveGraph("pets.ttl", b.Graph().Len())
	r.ObserveTable(st, 250*time.Millisecond)

	counts, err := r.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1.0, counts["owlsym_terms_discovered_total{role=Class}"])
	assert.Equal(t, 1.0, counts["owlsym_expressions_summarized_total{expr_type=Union}"])
	assert.Equal(t, 1.0, counts["owlsym_lists_materialized_total{strategy=helper}"])
	assert.Equal(t, float64(b.Graph().Len()), counts["owlsym_graph_triples{source=pets.ttl}"])
	assert.Equal(t, 1.0, counts["owlsym_table_terms{source=pets.ttl}"])
	assert.Equal(t, 0.25, counts["owlsym_extraction_duration_seconds{source=pets.ttl}"])
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.TermDiscovered(ir.RoleObjectProperty)

	path := filepath.Join(t.TempDir(), "owlsym.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# TYPE owlsym_terms_discovered_total counter")
	assert.Contains(t, string(data), `owlsym_terms_discovered_total{role="ObjectProperty"} 1`)
}

func TestRecorder_WriteTextfileBadDir(t *testing.T) {
	err := New().WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}
