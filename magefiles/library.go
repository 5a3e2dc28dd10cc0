//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Library saves the results of the query file in $FROM (default
// queries/latest.yaml) into the local library.
func Library() error {
	mg.Deps(Build)

	from := os.Getenv("FROM")
	if from == "" {
		from = "queries/latest.yaml"
	}
	return sh.RunV(binPath(), "library", "save", "--from", from)
}

// Export writes the library to CSL-YAML for reference managers.
func Export() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "library", "export", "--format", "csl")
}
