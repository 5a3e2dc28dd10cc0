//go:build mage

// Package main contains Mage build targets for pubmed-mcp developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"library",
	"queries",
	".secrets",
}

// Init creates the working directories for saved queries, the library, and
// API key files.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "pubmed-mcp"
	cmdPkg  = "./cmd/pubmed-mcp"

	// buildTags enables FTS5 in go-sqlite3 for library text search.
	buildTags = "sqlite_fts5"
)

func binPath() string { return filepath.Join(binDir, binName) }

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	out := binPath()
	if err := sh.RunV("go", "build", "-tags", buildTags,
		"-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with FTS5 enabled.
func Test() error {
	return sh.RunV("go", "test", "-tags", buildTags, "./...")
}

// Check runs vet and the tests.
func Check() error {
	if err := sh.RunV("go", "vet", "-tags", buildTags, "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Stats prints non-blank Go lines per package, split into production and
// test code.
func Stats() error {
	stats, err := countGoLines(".")
	if err != nil {
		return err
	}

	pkgs := make([]string, 0, len(stats))
	for p := range stats {
		pkgs = append(pkgs, p)
	}
	sort.Strings(pkgs)

	var prod, test int
	fmt.Printf("%-28s  %6s  %6s\n", "Package", "Prod", "Test")
	for _, p := range pkgs {
		s := stats[p]
		fmt.Printf("%-28s  %6d  %6d\n", p, s.prod, s.test)
		prod += s.prod
		test += s.test
	}
	fmt.Printf("%-28s  %6d  %6d\n", "total", prod, test)
	return nil
}

// lineCount holds non-blank line totals for one package directory.
type lineCount struct {
	prod int
	test int
}

// countGoLines walks root and counts non-blank lines of Go files by
// directory. Hidden directories, bin/ and _-prefixed directories are skipped.
func countGoLines(root string) (map[string]lineCount, error) {
	stats := make(map[string]lineCount)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}

		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		s := stats[filepath.ToSlash(rel)]
		if strings.HasSuffix(path, "_test.go") {
			s.test += n
		} else {
			s.prod += n
		}
		stats[filepath.ToSlash(rel)] = s
		return nil
	})
	return stats, err
}
