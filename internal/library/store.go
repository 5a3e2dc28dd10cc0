// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library keeps a local SQLite collection of PubMed articles so that
// past results can be searched and exported without contacting NCBI.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-mcp/internal/logging"
	"github.com/pdiddy/pubmed-mcp/internal/search"
	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

const (
	dbFile            = "library.db"
	defaultMaxResults = 20
)

// ErrNotFound is returned by Get when the PMID is not in the library.
var ErrNotFound = errors.New("article not in library")

// Store manages the library database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	fts        bool
	logger     *zap.Logger
}

// Open opens or creates dir/library.db and its schema.
func Open(cfg types.LibraryConfig, log *zap.Logger) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults, logger: logging.OrNop(log)}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			pmid TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			journal TEXT NOT NULL,
			publication_date TEXT,
			abstract TEXT NOT NULL,
			url TEXT NOT NULL,
			query TEXT,
			saved_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_journal ON articles(journal)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE articles_fts USING fts5(title, abstract, content=articles, content_rowid=rowid)`,
		`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
			INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
		END`,
		`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
			INSERT INTO articles_fts(articles_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
		END`,
		`CREATE TRIGGER articles_au AFTER UPDATE ON articles BEGIN
			INSERT INTO articles_fts(articles_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
		END`,
	}
	for i, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			// Binaries built without the sqlite_fts5 tag lack the module;
			// queries then fall back to LIKE matching.
			if i == 0 && strings.Contains(err.Error(), "no such module") {
				s.logger.Warn("sqlite built without FTS5; library search uses LIKE matching")
				return nil
			}
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// SaveSummary counts the outcome of a Save.
type SaveSummary struct {
	Added   int
	Updated int
}

// Total returns the number of records written.
func (s SaveSummary) Total() int { return s.Added + s.Updated }

// Save upserts records by PMID. query records the PubMed expression that
// produced them and may be empty.
func (s *Store) Save(ctx context.Context, records []types.ArticleRecord, query string) (SaveSummary, error) {
	var summary SaveSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, r := range records {
		if r.ID == "" {
			return SaveSummary{}, errors.New("record without PMID")
		}

		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM articles WHERE pmid = ?`, r.ID,
		).Scan(&exists); err != nil {
			return SaveSummary{}, fmt.Errorf("checking %s: %w", r.ID, err)
		}

		authors := r.Authors
		if authors == nil {
			authors = []string{}
		}
		authorsJSON, _ := json.Marshal(authors)

		_, err := tx.ExecContext(ctx,
			`INSERT INTO articles (pmid, title, authors, journal, publication_date, abstract, url, query, saved_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(pmid) DO UPDATE SET
				title=excluded.title, authors=excluded.authors, journal=excluded.journal,
				publication_date=excluded.publication_date, abstract=excluded.abstract,
				url=excluded.url, query=excluded.query, saved_at=excluded.saved_at`,
			r.ID, r.Title, string(authorsJSON), r.Journal, r.PublicationDate,
			r.Abstract, r.SourceURL, nullable(query), now,
		)
		if err != nil {
			return SaveSummary{}, fmt.Errorf("upserting %s: %w", r.ID, err)
		}

		if exists > 0 {
			summary.Updated++
		} else {
			summary.Added++
		}
	}

	if err := tx.Commit(); err != nil {
		return SaveSummary{}, fmt.Errorf("committing: %w", err)
	}
	s.logger.Debug("saved articles",
		zap.Int("added", summary.Added),
		zap.Int("updated", summary.Updated))
	return summary, nil
}

// ImportQueryFile saves the results held in a query file written by
// search.WriteQueryFile.
func (s *Store) ImportQueryFile(ctx context.Context, path string) (SaveSummary, error) {
	qf, err := search.ReadQueryFile(path)
	if err != nil {
		return SaveSummary{}, err
	}
	return s.Save(ctx, qf.Results, qf.Query.Term)
}

// Get returns the stored record for pmid or ErrNotFound.
func (s *Store) Get(ctx context.Context, pmid string) (types.ArticleRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles a WHERE a.pmid = ?`, pmid)
	r, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ArticleRecord{}, fmt.Errorf("%s: %w", pmid, ErrNotFound)
	}
	if err != nil {
		return types.ArticleRecord{}, fmt.Errorf("looking up %s: %w", pmid, err)
	}
	return r, nil
}

// Delete removes pmid. Deleting an absent PMID is not an error.
func (s *Store) Delete(ctx context.Context, pmid string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE pmid = ?`, pmid); err != nil {
		return fmt.Errorf("deleting %s: %w", pmid, err)
	}
	return nil
}

// Count returns the number of stored articles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting articles: %w", err)
	}
	return n, nil
}

const articleColumns = `a.pmid, a.title, a.authors, a.journal, a.publication_date, a.abstract, a.url`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (types.ArticleRecord, error) {
	var (
		r           types.ArticleRecord
		authorsJSON string
		date        sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Title, &authorsJSON, &r.Journal, &date, &r.Abstract, &r.SourceURL); err != nil {
		return types.ArticleRecord{}, err
	}
	r.Authors = []string{}
	if err := json.Unmarshal([]byte(authorsJSON), &r.Authors); err != nil {
		return types.ArticleRecord{}, fmt.Errorf("decoding authors of %s: %w", r.ID, err)
	}
	if date.Valid {
		d := date.String
		r.PublicationDate = &d
	}
	return r, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
