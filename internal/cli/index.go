package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/owlsym/internal/config"
	"github.com/roach88/owlsym/internal/store"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	PipelineOptions
	DBPath string
}

// IndexResult is the JSON payload of a successful index run.
type IndexResult struct {
	ExtractionID string             `json:"extraction_id"`
	Input        string             `json:"input"`
	DB           string             `json:"db"`
	Seq          int64              `json:"seq"`
	Inserted     bool               `json:"inserted"`
	Triples      int                `json:"triples"`
	Terms        int                `json:"terms"`
	TableHash    string             `json:"table_hash"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index <input>",
		Short: "Extract a symbol table and store it in the search index",
		Long: `Extract the symbol table of an ontology and store it in a SQLite index.

Each indexed table gets an extraction id derived from the source file name
and the table's content hash, so indexing unchanged content again returns
the existing id without writing anything.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", config.DefaultDBPath, "index database path")
	addPipelineFlags(cmd.Flags(), &opts.PipelineOptions)

	return cmd
}

func runIndex(cmd *cobra.Command, opts *IndexOptions, input string) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	cfg, err := resolveConfig(cmd, opts.RootOptions, func(cfg *config.Config, changed func(string) bool) {
		if changed("db") {
			cfg.DBPath = opts.DBPath
		}
		overlayPipelineFlags(&opts.PipelineOptions, cfg, changed)
	})
	if err != nil {
		return formatter.Fail(commandError(ErrCodeConfig, err.Error(), err))
	}
	logger := newLogger(cfg, opts.Verbose, cmd.ErrOrStderr())

	res, err := runPipeline(formatter, cfg, logger, input)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.DBPath, store.WithLogger(logger))
	if err != nil {
		return formatter.Fail(commandError(ErrCodeStore, err.Error(), err))
	}
	defer s.Close()

	ext, inserted, err := s.WriteTable(cmd.Context(), res.Table)
	if err != nil {
		return formatter.Fail(commandError(ErrCodeStore, err.Error(), err))
	}
	logger.Info("index written",
		"db", cfg.DBPath,
		"extraction", ext.ID,
		"seq", ext.Seq,
		"inserted", inserted,
	)
	if err := writeMetrics(formatter, cfg, logger, res); err != nil {
		return err
	}

	if opts.Format == "json" {
		return formatter.Success(IndexResult{
			ExtractionID: ext.ID,
			Input:        input,
			DB:           cfg.DBPath,
			Seq:          ext.Seq,
			Inserted:     inserted,
			Triples:      res.Triples,
			Terms:        ext.TermCount,
			TableHash:    ext.TableHash,
			Metrics:      metricsPayload(cfg, res),
		})
	}
	if inserted {
		formatter.Progress("Indexed %s as extraction %s with %d term entries.", input, ext.ID, ext.TermCount)
	} else {
		formatter.Progress("Already indexed: extraction %s (%d term entries).", ext.ID, ext.TermCount)
	}
	return nil
}
