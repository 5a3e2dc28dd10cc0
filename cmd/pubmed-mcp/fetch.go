// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

// fetchConcurrency bounds parallel lookups. NCBI allows 3 requests per second
// without an API key and each lookup issues two.
const fetchConcurrency = 3

var fetchCmd = &cobra.Command{
	Use:   "fetch <pmid>...",
	Short: "Fetch articles by PubMed ID",
	Long: `Fetch looks up each PMID and prints the articles found, in argument
order. PMIDs that PubMed does not know are reported on stderr and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("api-key", "", "NCBI API key")
	fetchCmd.Flags().Int("concurrency", fetchConcurrency, "maximum lookups in flight")
	addFormatFlag(fetchCmd)

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	apiKey, _ := cmd.Flags().GetString("api-key")
	limit, _ := cmd.Flags().GetInt("concurrency")
	format, _ := cmd.Flags().GetString("format")

	svc, err := newService()
	if err != nil {
		return err
	}
	records, err := fetchAll(context.Background(), svc, args, apiKey, limit)
	if err != nil {
		return err
	}
	return writeRecords(os.Stdout, records, format)
}

// idFetcher is implemented by *retrieval.Service.
type idFetcher interface {
	GetByIDRecords(ctx context.Context, pmid, apiKey string) ([]types.ArticleRecord, error)
}

// fetchAll resolves pmids with at most limit lookups in flight. Results keep
// the order of pmids; unknown PMIDs are skipped. The first lookup error
// cancels the rest.
func fetchAll(ctx context.Context, f idFetcher, pmids []string, apiKey string, limit int) ([]types.ArticleRecord, error) {
	if limit <= 0 {
		limit = fetchConcurrency
	}

	found := make([][]types.ArticleRecord, len(pmids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, pmid := range pmids {
		g.Go(func() error {
			records, err := f.GetByIDRecords(ctx, pmid, apiKey)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", pmid, err)
			}
			found[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]types.ArticleRecord, 0, len(pmids))
	for i, records := range found {
		if len(records) == 0 {
			logger.Warn("article not found", zap.String("pmid", strings.TrimSpace(pmids[i])))
			fmt.Fprintf(os.Stderr, "No article found for PMID %s\n", pmids[i])
			continue
		}
		out = append(out, records...)
	}
	return out, nil
}
