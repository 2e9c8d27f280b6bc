package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/owlsym/internal/config"
	"github.com/roach88/owlsym/internal/ir"
	"github.com/roach88/owlsym/internal/queryir"
	"github.com/roach88/owlsym/internal/store"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	DBPath     string
	Role       string
	Label      string
	Prefix     string
	Extraction string
	Limit      int
}

// SearchResult is the JSON payload of a search.
type SearchResult struct {
	ExtractionID string      `json:"extraction_id"`
	Count        int         `json:"count"`
	Hits         []SearchHit `json:"hits"`
}

// SearchHit is one matching term and its position in the table.
type SearchHit struct {
	Position int     `json:"position"`
	Term     ir.Term `json:"term"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the terms of an indexed symbol table",
		Long: `Search the terms of the latest indexed extraction, or of the one named
with --extraction. Filters combine with AND; label matching is a
case-insensitive substring match over labels and alt labels.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", config.DefaultDBPath, "index database path")
	cmd.Flags().StringVar(&opts.Role, "role", "", fmt.Sprintf("only terms with this role %v", ir.Roles))
	cmd.Flags().StringVar(&opts.Label, "label", "", "label or alt label substring")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "IRI prefix")
	cmd.Flags().StringVar(&opts.Extraction, "extraction", "", "extraction id (default: latest)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of hits (0 means no limit)")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *SearchOptions) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	cfg, err := resolveConfig(cmd, opts.RootOptions, func(cfg *config.Config, changed func(string) bool) {
		if changed("db") {
			cfg.DBPath = opts.DBPath
		}
	})
	if err != nil {
		return formatter.Fail(commandError(ErrCodeConfig, err.Error(), err))
	}
	logger := newLogger(cfg, opts.Verbose, cmd.ErrOrStderr())

	params := store.SearchParams{
		ExtractionID: opts.Extraction,
		Label:        opts.Label,
		IRIPrefix:    opts.Prefix,
		Limit:        opts.Limit,
	}
	if opts.Role != "" {
		role, err := ir.ParseRole(opts.Role)
		if err != nil {
			return formatter.Fail(commandError(ErrCodeInvalidQuery, err.Error(), err))
		}
		params.Role = role
	}

	s, err := store.OpenReadOnly(cfg.DBPath, store.WithLogger(logger))
	if errors.Is(err, store.ErrNoIndex) {
		return formatter.Fail(commandError(ErrCodeStore,
			fmt.Sprintf("no index at %s; run owlsym index first", cfg.DBPath), err))
	}
	if err != nil {
		return formatter.Fail(commandError(ErrCodeStore, err.Error(), err))
	}
	defer s.Close()

	hits, err := s.Search(cmd.Context(), params)
	if err != nil {
		var verr *queryir.ValidationError
		switch {
		case errors.As(err, &verr):
			return formatter.Fail(commandError(ErrCodeInvalidQuery, verr.Error(), err))
		case errors.Is(err, sql.ErrNoRows) && opts.Extraction != "":
			return formatter.Fail(commandError(ErrCodeStore,
				fmt.Sprintf("extraction %q not found in %s", opts.Extraction, cfg.DBPath), err))
		case errors.Is(err, sql.ErrNoRows):
			return formatter.Fail(commandError(ErrCodeStore,
				fmt.Sprintf("no extractions indexed in %s", cfg.DBPath), err))
		default:
			return formatter.Fail(commandError(ErrCodeStore, err.Error(), err))
		}
	}
	logger.Debug("search done", "hits", len(hits))

	result := SearchResult{Hits: make([]SearchHit, 0, len(hits))}
	for _, h := range hits {
		result.ExtractionID = h.ExtractionID
		result.Hits = append(result.Hits, SearchHit{Position: h.Position, Term: h.Term})
	}
	result.Count = len(result.Hits)

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	w := cmd.OutOrStdout()
	for _, h := range result.Hits {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", h.Position, h.Term.IRI, joinRoles(h.Term.Types), strings.Join(h.Term.Labels, "; "))
	}
	fmt.Fprintf(w, "%d term(s) found.\n", result.Count)
	return nil
}

func joinRoles(roles []ir.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ",")
}
