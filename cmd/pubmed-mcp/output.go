// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-mcp/internal/search"
	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

// Output formats accepted by --format.
const (
	formatJSON  = "json"
	formatTable = "table"
	formatCSL   = "csl"
	formatMD    = "markdown"
)

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", formatJSON, "output format: json, table, markdown, or csl")
}

// writeRecords renders records to w in the named format.
func writeRecords(w io.Writer, records []types.ArticleRecord, format string) error {
	switch format {
	case formatJSON, "":
		return search.FormatJSON(records, w)
	case formatTable:
		search.FormatTable(records, w)
		return nil
	case formatMD:
		return search.FormatMarkdown(records, w)
	case formatCSL:
		return search.FormatCSL(records, w)
	default:
		return fmt.Errorf("unsupported format %q: use json, table, markdown, or csl", format)
	}
}
