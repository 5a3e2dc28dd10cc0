// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-mcp/internal/library"
	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the local article library (save, query, export)",
	Long: `Library keeps retrieved articles in a local SQLite database with
full-text search over titles and abstracts. Use subcommands to save articles,
query them offline, or export them.`,
}

// --- save subcommand ---

var librarySaveCmd = &cobra.Command{
	Use:   "save [pmid...]",
	Short: "Save articles by PMID or from a saved query file",
	Long: `Save fetches the given PMIDs from PubMed and stores them. With --from it
stores the results of a query file written by search --save or ask --save
instead, without contacting PubMed. Existing articles are updated.`,
	RunE: runLibrarySave,
}

func runLibrarySave(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	if from == "" && len(args) == 0 {
		return fmt.Errorf("provide PMIDs or --from <query file>")
	}

	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var summary library.SaveSummary
	if from != "" {
		summary, err = store.ImportQueryFile(ctx, from)
		if err != nil {
			return err
		}
	}

	if len(args) > 0 {
		apiKey, _ := cmd.Flags().GetString("api-key")
		svc, err := newService()
		if err != nil {
			return err
		}
		records, err := fetchAll(ctx, svc, args, apiKey, fetchConcurrency)
		if err != nil {
			return err
		}
		fetched, err := store.Save(ctx, records, "")
		if err != nil {
			return err
		}
		summary.Added += fetched.Added
		summary.Updated += fetched.Updated
	}

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %d article(s): %d added, %d updated (%d in library)\n",
		summary.Total(), summary.Added, summary.Updated, total)
	return nil
}

// --- query subcommand ---

var libraryQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the library with full-text search and filters",
	Long: `Query searches saved articles by title and abstract text, journal,
and publication year. Text uses FTS5 syntax when the binary includes FTS5.`,
	RunE: runLibraryQuery,
}

func runLibraryQuery(cmd *cobra.Command, args []string) error {
	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := libraryQueryOpts(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --journal, or --year")
	}

	records, err := store.Query(context.Background(), opts)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	return writeRecords(os.Stdout, records, format)
}

// --- get subcommand ---

var libraryGetCmd = &cobra.Command{
	Use:   "get <pmid>",
	Short: "Print one saved article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		r, err := store.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return writeRecords(os.Stdout, []types.ArticleRecord{r}, format)
	},
}

// --- delete subcommand ---

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <pmid>...",
	Short: "Remove articles from the library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, pmid := range args {
			if err := store.Delete(context.Background(), pmid); err != nil {
				return err
			}
		}
		fmt.Printf("Deleted %d article(s)\n", len(args))
		return nil
	},
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export [text]",
	Short: "Export the library to YAML, JSON, or CSL-YAML",
	Long: `Export writes the whole library (or a filtered subset) to export.yaml,
export.json, or export-csl.yaml in the library directory. Supports the same
filters as query.`,
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	opts := libraryQueryOpts(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(ctx, opts)
	case formatJSON:
		path, err = store.ExportJSON(ctx, opts)
	case formatCSL:
		path, err = store.ExportCSL(ctx, opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json, or csl", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func openLibrary(cmd *cobra.Command) (*library.Store, error) {
	lc := cfg.Library
	if dir, _ := cmd.Flags().GetString("library-dir"); cmd.Flags().Changed("library-dir") {
		lc.Dir = dir
	}
	return library.Open(lc, logger)
}

func libraryQueryOpts(cmd *cobra.Command, args []string) library.QueryOptions {
	journal, _ := cmd.Flags().GetString("journal")
	year, _ := cmd.Flags().GetString("year")
	limit, _ := cmd.Flags().GetInt("limit")
	return library.QueryOptions{
		Text:       queryText(cmd, args),
		Journal:    journal,
		Year:       year,
		MaxResults: limit,
	}
}

func addLibraryFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "full-text search over titles and abstracts")
	cmd.Flags().String("journal", "", "filter by journal title")
	cmd.Flags().String("year", "", "filter by publication year")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	libraryCmd.PersistentFlags().String("library-dir", "library", "directory holding library.db and exports (default from config)")

	librarySaveCmd.Flags().String("from", "", "query file written by search --save or ask --save")
	librarySaveCmd.Flags().String("api-key", "", "NCBI API key")

	addLibraryFilterFlags(libraryQueryCmd)
	libraryQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	addFormatFlag(libraryQueryCmd)

	addFormatFlag(libraryGetCmd)

	addLibraryFilterFlags(libraryExportCmd)
	libraryExportCmd.Flags().String("format", "yaml", "export format: yaml, json, or csl")

	libraryCmd.AddCommand(librarySaveCmd)
	libraryCmd.AddCommand(libraryQueryCmd)
	libraryCmd.AddCommand(libraryGetCmd)
	libraryCmd.AddCommand(libraryDeleteCmd)
	libraryCmd.AddCommand(libraryExportCmd)

	rootCmd.AddCommand(libraryCmd)
}
