package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roach88/owlsym/internal/config"
)

// PipelineOptions holds the flags shared by every command that extracts.
type PipelineOptions struct {
	MetricsFile   string
	LiteralDetail bool
	CacheSize     int
}

// ExtractOptions holds flags for the root extraction command.
type ExtractOptions struct {
	*RootOptions
	PipelineOptions
	Input     string
	Output    string // optional positional argument
	Canonical bool
}

// ExtractResult is the JSON payload of a successful extraction.
type ExtractResult struct {
	Input     string             `json:"input"`
	Output    string             `json:"output"`
	Triples   int                `json:"triples"`
	Terms     int                `json:"terms"`
	TableHash string             `json:"table_hash"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

func addExtractFlags(fs *pflag.FlagSet, opts *ExtractOptions) {
	fs.BoolVar(&opts.Canonical, "canonical", false, "write canonical (RFC 8785) JSON instead of indented JSON")
	addPipelineFlags(fs, &opts.PipelineOptions)
}

func addPipelineFlags(fs *pflag.FlagSet, opts *PipelineOptions) {
	fs.StringVar(&opts.MetricsFile, "metrics-file", "", "write extraction metrics to a Prometheus textfile")
	fs.BoolVar(&opts.LiteralDetail, "literal-detail", true, "keep datatype and language tag on literal expressions")
	fs.IntVar(&opts.CacheSize, "cache-size", config.DefaultCacheSize, "summary cache entries (0 disables)")
}

// overlayExtractFlags copies explicitly set extraction flags onto cfg.
func overlayExtractFlags(opts *ExtractOptions) func(*config.Config, func(string) bool) {
	return func(cfg *config.Config, changed func(string) bool) {
		if opts.Output != "" {
			cfg.OutputPath = opts.Output
		}
		if changed("canonical") {
			cfg.Canonical = opts.Canonical
		}
		overlayPipelineFlags(&opts.PipelineOptions, cfg, changed)
	}
}

func overlayPipelineFlags(opts *PipelineOptions, cfg *config.Config, changed func(string) bool) {
	if changed("metrics-file") {
		cfg.MetricsFile = opts.MetricsFile
	}
	if changed("literal-detail") {
		cfg.LiteralDetail = opts.LiteralDetail
	}
	if changed("cache-size") {
		cfg.CacheSize = opts.CacheSize
	}
}

func runExtract(cmd *cobra.Command, opts *ExtractOptions) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	cfg, err := resolveConfig(cmd, opts.RootOptions, overlayExtractFlags(opts))
	if err != nil {
		return formatter.Fail(commandError(ErrCodeConfig, err.Error(), err))
	}
	logger := newLogger(cfg, opts.Verbose, cmd.ErrOrStderr())

	res, err := runPipeline(formatter, cfg, logger, opts.Input)
	if err != nil {
		return err
	}

	data, err := res.Table.Encode(!cfg.Canonical)
	if err != nil {
		return formatter.Fail(&ExitError{Status: ExitFailure, Code: ErrCodeGeneric, Message: "encode symbol table", Err: err})
	}
	if err := writeFileAtomic(cfg.OutputPath, data); err != nil {
		return formatter.Fail(commandError(ErrCodeWriteFailed, err.Error(), err))
	}
	logger.Info("table written", "output", cfg.OutputPath, "terms", res.Table.TermCount)
	if err := writeMetrics(formatter, cfg, logger, res); err != nil {
		return err
	}

	if opts.Format == "json" {
		return formatter.Success(ExtractResult{
			Input:     opts.Input,
			Output:    cfg.OutputPath,
			Triples:   res.Triples,
			Terms:     res.Table.TermCount,
			TableHash: res.Hash,
			Metrics:   metricsPayload(cfg, res),
		})
	}
	formatter.Progress("Wrote %s with %d term entries.", cfg.OutputPath, res.Table.TermCount)
	return nil
}
