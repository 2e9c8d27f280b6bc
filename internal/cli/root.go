package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/owlsym/internal/config"
	"github.com/roach88/owlsym/internal/graph"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigFile  string
	LogLevel    string
	InputFormat string

	// Environment replaces the process environment during config
	// resolution when non-nil. Tests use it to stay hermetic.
	Environment map[string]string
	// DotEnv overrides the .env path consulted during config resolution.
	DotEnv string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// usageLine is printed to stderr when the input argument is missing.
const usageLine = "Usage: owlsym <input.owl|.ttl|.rdf> [output.json]"

// NewRootCommand creates the root command. Run without a subcommand it
// extracts a symbol table.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	extractOpts := &ExtractOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "owlsym <input> [output]",
		Short: "owlsym - OWL/RDF symbol table extractor",
		Long: `Extract a symbol table from an OWL/RDF ontology: every class, property and
individual with labels, comments, annotations and structural relationships,
written as JSON for downstream tooling.

The input format is detected from the file extension (.ttl, .rdf, .owl, .nt,
.nq) or set with --input-format. Output defaults to symbol_table_full.json.`,
		SilenceUsage:  true, // We print our own usage line
		SilenceErrors: true, // and our own errors
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				fmt.Fprintln(cmd.ErrOrStderr(), usageLine)
				return commandError(ErrCodeUsage,
					fmt.Sprintf("expected <input> [output], got %d argument(s)", len(args)), nil)
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				f := &OutputFormatter{Format: "text", Writer: cmd.ErrOrStderr()}
				return f.Fail(commandError(ErrCodeUsage,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			extractOpts.Input = args[0]
			if len(args) > 1 {
				extractOpts.Output = args[1]
			}
			return runExtract(cmd, extractOpts)
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (forces debug logging)")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigFile, "config", "", "config file (.yaml, .yml or .cue)")
	pf.StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	pf.StringVar(&opts.InputFormat, "input-format", "", fmt.Sprintf("input format, overrides detection %v", graph.Formats))

	addExtractFlags(cmd.Flags(), extractOpts)

	cmd.AddCommand(NewIndexCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))

	return cmd
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
}

// resolveConfig layers command-line flags over the loaded configuration.
// A flag only wins when it was set explicitly.
func resolveConfig(cmd *cobra.Command, opts *RootOptions, overlay func(cfg *config.Config, changed func(string) bool)) (config.Config, error) {
	cfg, err := config.Load(config.Source{
		File:        opts.ConfigFile,
		DotEnv:      opts.DotEnv,
		Environment: opts.Environment,
	})
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}
	if changed("log-level") {
		cfg.LogLevel = opts.LogLevel
	}
	if changed("input-format") {
		cfg.InputFormat = opts.InputFormat
	}
	if overlay != nil {
		overlay(&cfg, changed)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the command logger: text or JSON on w, debug when
// verbose.
func newLogger(cfg config.Config, verbose bool, w io.Writer) *slog.Logger {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}
