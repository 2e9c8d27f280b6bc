package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/owlsym/internal/config"
	"github.com/roach88/owlsym/internal/extract"
	"github.com/roach88/owlsym/internal/graph"
	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/metrics"
)

// pipelineResult is everything one extraction produced.
type pipelineResult struct {
	Triples  int
	Table    *ir.SymbolTable
	Hash     string
	Recorder *metrics.Recorder
}

// runPipeline parses input and extracts its symbol table. Failures are
// reported through formatter and returned as ExitErrors.
func runPipeline(formatter *OutputFormatter, cfg config.Config, logger *slog.Logger, input string) (*pipelineResult, error) {
	rec := metrics.New()

	formatter.Progress("Parsing: %s", input)
	start := time.Now()

	format, err := graph.ParseFormat(cfg.InputFormat)
	if err != nil {
		return nil, formatter.Fail(commandError(ErrCodeConfig, err.Error(), err))
	}

	g, err := graph.ParseFile(input, format)
	if err != nil {
		var pe *graph.ParseError
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil, formatter.Fail(commandError(ErrCodeNotFound,
				fmt.Sprintf("input file not found: %s", input), err))
		case errors.As(err, &pe):
			return nil, formatter.Fail(commandError(ErrCodeParseFailed, pe.Error(), err))
		default:
			return nil, formatter.Fail(commandError(ErrCodeNotFound,
				fmt.Sprintf("cannot read input %s: %v", input, err), err))
		}
	}
	rec.ObserveGraph(input, g.Len())
	logger.Info("graph parsed", "input", input, "triples", g.Len())
	formatter.Progress("Graph parsed. Triples: %d", g.Len())

	x := extract.New(g,
		extract.WithLogger(logger),
		extract.WithObserver(rec),
		extract.WithCacheSize(cfg.CacheSize),
		extract.WithLiteralDetail(cfg.LiteralDetail),
	)
	st := x.Extract(input)
	rec.ObserveTable(st, time.Since(start))

	hash, err := ir.TableHash(st)
	if err != nil {
		return nil, formatter.Fail(&ExitError{Status: ExitFailure, Code: ErrCodeGeneric, Message: "hash symbol table", Err: err})
	}

	return &pipelineResult{Triples: g.Len(), Table: st, Hash: hash, Recorder: rec}, nil
}

// writeMetrics writes the metrics textfile, if one was requested. Callers
// run it only after the symbol table has been written.
func writeMetrics(formatter *OutputFormatter, cfg config.Config, logger *slog.Logger, res *pipelineResult) error {
	if cfg.MetricsFile == "" {
		return nil
	}
	if err := res.Recorder.WriteTextfile(cfg.MetricsFile); err != nil {
		return formatter.Fail(commandError(ErrCodeWriteFailed, err.Error(), err))
	}
	logger.Debug("metrics written", "path", cfg.MetricsFile)
	return nil
}

// metricsPayload returns the counter snapshot for JSON output, or nil when
// no metrics file was requested.
func metricsPayload(cfg config.Config, res *pipelineResult) map[string]float64 {
	if cfg.MetricsFile == "" {
		return nil
	}
	counts, err := res.Recorder.Counts()
	if err != nil {
		return nil
	}
	return counts
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place. On any failure path is left untouched.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
