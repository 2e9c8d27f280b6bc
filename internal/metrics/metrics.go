// Package metrics counts extraction events in a private Prometheus
// registry and exports them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/owlsym/internal/extract"
	"github.com/roach88/owlsym/internal/ir"
)

const namespace = "owlsym"

// Recorder implements extract.Observer.
type Recorder struct {
	registry *prometheus.Registry

	termsDiscovered *prometheus.CounterVec
	expressions     *prometheus.CounterVec
	lists           *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cyclesBroken    prometheus.Counter

	graphTriples *prometheus.GaugeVec
	tableTerms   *prometheus.GaugeVec
	duration     *prometheus.GaugeVec
}

var _ extract.Observer = (*Recorder)(nil)

// New creates a Recorder with every collector registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		termsDiscovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terms_discovered_total",
			Help:      "Discovered (role, IRI) pairs.",
		}, []string{"role"}),
		expressions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expressions_summarized_total",
			Help:      "Class expressions summarized, by exprType.",
		}, []string{"expr_type"}),
		lists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lists_materialized_total",
			Help:      "RDF lists read, by strategy.",
		}, []string{"strategy"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_cache_lookups_total",
			Help:      "Summary cache lookups, by result.",
		}, []string{"result"}),
		cyclesBroken: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_broken_total",
			Help:      "Re-entrant blank nodes cut during summarization.",
		}),
		graphTriples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_triples",
			Help:      "Triples in the parsed graph.",
		}, []string{"source"}),
		tableTerms: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_terms",
			Help:      "Term records in the symbol table.",
		}, []string{"source"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Wall time of the last extraction.",
		}, []string{"source"}),
	}
	r.registry.MustRegister(
		r.termsDiscovered, r.expressions, r.lists, r.cacheLookups, r.cyclesBroken,
		r.graphTriples, r.tableTerms, r.duration,
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) TermDiscovered(role ir.Role) {
	r.termsDiscovered.WithLabelValues(string(role)).Inc()
}

func (r *Recorder) ExpressionSummarized(kind ir.ExprType) {
	r.expressions.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) ListMaterialized(strategy extract.ListStrategy) {
	r.lists.WithLabelValues(strategy.String()).Inc()
}

func (r *Recorder) CycleBroken() {
	r.cyclesBroken.Inc()
}

func (r *Recorder) CacheLookup(hit bool) {
	r.cacheLookups.WithLabelValues(lookupResult(hit)).Inc()
}

// ObserveGraph records the size of a parsed graph.
func (r *Recorder) ObserveGraph(source string, triples int) {
	r.graphTriples.WithLabelValues(source).Set(float64(triples))
}

// ObserveTable records a finished extraction.
func (r *Recorder) ObserveTable(st *ir.SymbolTable, elapsed time.Duration) {
	r.tableTerms.WithLabelValues(st.SourceFile).Set(float64(st.TermCount))
	r.duration.WithLabelValues(st.SourceFile).Set(elapsed.Seconds())
}

// WriteTextfile writes every metric to path. The file is replaced
// atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

func lookupResult(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// Counts is a flat snapshot, keyed "name{label=value}", used by tests and
// the JSON command output.
func (r *Recorder) Counts() (map[string]float64, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			default:
				out[key] = 0
			}
		}
	}
	return out, nil
}
