// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search talks to PubMed through NCBI E-utilities and turns efetch
// XML into article records. It also renders records as JSON, a text or
// Markdown table, or CSL-YAML, and saves searches to query files.
package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

// jsonIndent matches the four-space indentation tool consumers already expect.
const jsonIndent = "    "

// FormatJSON writes records as indented JSON to w. Non-ASCII text is written
// literally and HTML characters are not escaped. A nil slice is written as [].
func FormatJSON(records []types.ArticleRecord, w io.Writer) error {
	if records == nil {
		records = []types.ArticleRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// MarshalJSON returns the FormatJSON rendering of records without the
// trailing newline.
func MarshalJSON(records []types.ArticleRecord) (string, error) {
	var buf bytes.Buffer
	if err := FormatJSON(records, &buf); err != nil {
		return "", fmt.Errorf("encoding records: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.ArticleRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-56s  %-20s  %-4s  %s\n",
		"Rank", "PMID", "Title", "Authors", "Year", "Journal")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, r := range records {
		fmt.Fprintf(w, "%-4d  %-10s  %-56s  %-20s  %-4s  %s\n",
			i+1, r.ID, truncate(r.Title, 56), formatAuthors(r.Authors), r.Year(), truncate(r.Journal, 30))
	}

	fmt.Fprintf(w, "\n%d results\n", len(records))
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to max runes, ending in "..." when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
