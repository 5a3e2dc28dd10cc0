// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-mcp/internal/retrieval"
	"github.com/pdiddy/pubmed-mcp/internal/search"
	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search PubMed with a query expression",
	Long: `Search sends a PubMed query expression (field tags, MeSH terms, boolean
operators) to the E-utilities and prints the matching articles. Use --save to
keep the query and results in a YAML file, and --load to print a saved file
without querying PubMed again.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "PubMed query expression (alternative to positional args)")
	searchCmd.Flags().Int("max-results", retrieval.SearchCap, "maximum number of articles to fetch")
	searchCmd.Flags().String("api-key", "", "NCBI API key (default: config, PUBMED_MCP_PUBMED_API_KEY, or .secrets/ncbi-api-key)")
	searchCmd.Flags().String("save", "", "write the query and results to this YAML file")
	searchCmd.Flags().String("load", "", "print results from a saved query file instead of searching")
	addFormatFlag(searchCmd)

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	if loadPath, _ := cmd.Flags().GetString("load"); loadPath != "" {
		qf, err := search.ReadQueryFile(loadPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Loaded %d result(s) for %q\n", len(qf.Results), qf.Query.Term)
		return writeRecords(os.Stdout, qf.Results, format)
	}

	query := queryText(cmd, args)
	if query == "" {
		return fmt.Errorf("provide a query as arguments or with --query")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	apiKey, _ := cmd.Flags().GetString("api-key")

	svc, err := newService()
	if err != nil {
		return err
	}
	records, err := svc.SearchRecords(context.Background(), query, maxResults, apiKey)
	if err != nil {
		return err
	}

	if err := saveQuery(cmd, search.QueryParams{Term: query, MaxResults: maxResults}, records); err != nil {
		return err
	}
	return writeRecords(os.Stdout, records, format)
}

// queryText returns --query, or the positional args joined by spaces.
func queryText(cmd *cobra.Command, args []string) string {
	q, _ := cmd.Flags().GetString("query")
	if q == "" {
		q = strings.Join(args, " ")
	}
	return strings.TrimSpace(q)
}

// saveQuery writes a query file when --save is set.
func saveQuery(cmd *cobra.Command, params search.QueryParams, records []types.ArticleRecord) error {
	path, _ := cmd.Flags().GetString("save")
	if path == "" {
		return nil
	}
	if err := search.WriteQueryFile(path, params, records); err != nil {
		return fmt.Errorf("saving query file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Saved %d result(s) to %s\n", len(records), path)
	return nil
}
