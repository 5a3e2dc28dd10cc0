//go:build mage

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountGoLines(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("main.go", "package main\n\nfunc main() {}\n")
	write("internal/search/pubmed.go", "package search\n\n  \n\t\nvar x = 1\n")
	write("internal/search/pubmed_test.go", "package search\n\nfunc f() {}")
	write("internal/search/README.md", "not go\n")
	write("_examples/other/skip.go", "package skip\n")
	write(".git/skip.go", "package skip\n")
	write("bin/skip.go", "package skip\n")

	stats, err := countGoLines(root)
	require.NoError(t, err)

	assert.Equal(t, map[string]lineCount{
		".":               {prod: 2},
		"internal/search": {prod: 2, test: 2},
	}, stats)
}

func TestCountGoLinesMissingRoot(t *testing.T) {
	_, err := countGoLines(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
