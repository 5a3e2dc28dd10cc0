//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search builds the CLI and runs a PubMed query given in $QUERY, saving the
// results under queries/.
func Search() error {
	mg.Deps(Build)

	query := os.Getenv("QUERY")
	if query == "" {
		return fmt.Errorf("set QUERY to a PubMed query expression")
	}
	out := os.Getenv("OUT")
	if out == "" {
		out = filepath.Join("queries", "latest.yaml")
	}
	return sh.RunV(binPath(), "search", "--query", query, "--format", "table", "--save", out)
}

// Serve builds the CLI and runs the MCP server on stdio.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "serve")
}
