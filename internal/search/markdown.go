// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"

	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

// FormatMarkdown writes records as a Markdown table to w. Each PMID links to
// its PubMed page.
func FormatMarkdown(records []types.ArticleRecord, w io.Writer) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
	)
	table.Header([]string{"#", "PMID", "Title", "Authors", "Year", "Journal"})

	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("[%s](%s)", r.ID, r.SourceURL),
			truncate(r.Title, 80),
			formatAuthors(r.Authors),
			r.Year(),
			truncate(r.Journal, 40),
		})
	}

	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("building table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}
