// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results, so a
// search can be reviewed later without querying PubMed again.
type QueryFile struct {
	Query   QueryParams           `yaml:"query"`
	Results []types.ArticleRecord `yaml:"results"`
	Summary QuerySummary          `yaml:"summary"`
}

// QueryParams stores how the search was issued.
type QueryParams struct {
	// Term is the PubMed expression that was sent to esearch.
	Term string `yaml:"term"`

	// NaturalLanguage is the original request when Term was translated.
	NaturalLanguage string `yaml:"natural_language,omitempty"`

	MaxResults int `yaml:"max_results"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves the query parameters and records to a YAML file.
func WriteQueryFile(path string, params QueryParams, records []types.ArticleRecord) error {
	qf := QueryFile{
		Query:   params,
		Results: records,
		Summary: QuerySummary{
			Total:     len(records),
			Timestamp: time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	if qf.Query.Term == "" {
		return nil, fmt.Errorf("query file %s has no query term", path)
	}
	return &qf, nil
}
