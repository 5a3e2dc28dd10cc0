// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

// QueryOptions holds parameters for library queries.
type QueryOptions struct {
	// Text is matched against titles and abstracts. With FTS5 available it
	// uses FTS5 query syntax; otherwise it is a case-insensitive substring.
	Text string

	// Journal filters by exact journal title.
	Journal string

	// Year filters by publication year ("2021").
	Year string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search text or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Text == "" && q.Journal == "" && q.Year == ""
}

// Query searches the library. Text queries are ranked by relevance when FTS5
// is available; otherwise results are ordered by most recently saved.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]types.ArticleRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Text != "" && s.fts
	)

	if useFTS {
		qb.WriteString(`SELECT ` + articleColumns + `
			FROM articles_fts
			JOIN articles a ON a.rowid = articles_fts.rowid
			WHERE articles_fts MATCH ?`)
		args = append(args, opts.Text)
	} else {
		qb.WriteString(`SELECT ` + articleColumns + ` FROM articles a WHERE 1=1`)
		if opts.Text != "" {
			qb.WriteString(` AND (a.title LIKE ? ESCAPE '\' OR a.abstract LIKE ? ESCAPE '\')`)
			pattern := "%" + escapeLike(opts.Text) + "%"
			args = append(args, pattern, pattern)
		}
	}

	if opts.Journal != "" {
		qb.WriteString(` AND a.journal = ?`)
		args = append(args, opts.Journal)
	}
	if opts.Year != "" {
		qb.WriteString(` AND (a.publication_date = ? OR a.publication_date LIKE ? ESCAPE '\')`)
		args = append(args, opts.Year, escapeLike(opts.Year)+" %")
	}

	if useFTS {
		qb.WriteString(` ORDER BY articles_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY a.saved_at DESC, a.pmid`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	results := []types.ArticleRecord{}
	for rows.Next() {
		r, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
