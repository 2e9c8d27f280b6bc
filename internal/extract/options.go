package extract

import (
	"io"
	"log/slog"

	"github.com/roach88/owlsym/internal/ir"
)

// DefaultCacheSize is the number of blank-node summaries kept in memory.
const DefaultCacheSize = 4096

// Observer receives extraction events. The metrics package implements it;
// the default discards everything.
type Observer interface {
	TermDiscovered(role ir.Role)
	ExpressionSummarized(kind ir.ExprType)
	ListMaterialized(strategy ListStrategy)
	CycleBroken()
	CacheLookup(hit bool)
}

type nopObserver struct{}

func (nopObserver) TermDiscovered(ir.Role) {}
func (nopObserver) ExpressionSummarized(ir.ExprType) {}
func (nopObserver) ListMaterialized(ListStrategy) {}
func (nopObserver) CycleBroken() {}
func (nopObserver) CacheLookup(bool) {}

type options struct {
	logger        *slog.Logger
	observer      Observer
	cacheSize     int
	literalDetail bool
}

func defaultOptions() options {
	return options{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer:      nopObserver{},
		cacheSize:     DefaultCacheSize,
		literalDetail: true,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures an Extractor or Summarizer.
type Option func(*options)

// WithLogger sets the logger for debug events (list fallbacks, cycle
// breaks, cache statistics). Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver sets the event sink.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithCacheSize bounds the summary cache. Zero or less disables caching.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithLiteralDetail controls whether Literal expressions carry datatype
// and language tag. Default: true.
func WithLiteralDetail(enabled bool) Option {
	return func(o *options) {
		o.literalDetail = enabled
	}
}
