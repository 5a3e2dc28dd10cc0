// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval composes the translator and the PubMed client into the
// operations exposed to tool hosts: structured search, natural-language
// search, and lookup by PMID. Results are returned as indented JSON text.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-mcp/internal/logging"
	"github.com/pdiddy/pubmed-mcp/internal/search"
	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

const (
	// SearchCap bounds every tool-level search.
	SearchCap = 3

	// idCap is the cap used for PMID lookups.
	idCap = 1
)

// ErrEmptyID is returned by GetByID when no PMID is given.
var ErrEmptyID = errors.New("empty PMID")

// Searcher runs one esearch/efetch round trip. *search.PubMedClient
// implements it.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int, apiKey string) ([]types.ArticleRecord, error)
}

// Translator turns a natural-language request into a PubMed query.
// *translate.Translator implements it.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Service is the retrieval facade. It holds no per-request state.
type Service struct {
	Searcher   Searcher
	Translator Translator
	Logger     *zap.Logger
}

// NewService returns a Service. translator may be nil when natural-language
// search is not configured.
func NewService(searcher Searcher, translator Translator, log *zap.Logger) *Service {
	return &Service{Searcher: searcher, Translator: translator, Logger: logging.OrNop(log)}
}

// Translation pairs a natural-language request with the query it produced
// and the records that query returned.
type Translation struct {
	Request string
	Query   string
	Records []types.ArticleRecord
}

// IDQuery restricts a search to exactly pmid.
func IDQuery(pmid string) string {
	return pmid + "[PMID]"
}

// Search runs query with the fixed tool cap and returns the JSON array.
func (s *Service) Search(ctx context.Context, query, apiKey string) (string, error) {
	records, err := s.SearchRecords(ctx, query, SearchCap, apiKey)
	if err != nil {
		return "", err
	}
	return search.MarshalJSON(records)
}

// SearchRecords runs query with the given cap and returns the records.
func (s *Service) SearchRecords(ctx context.Context, query string, maxResults int, apiKey string) ([]types.ArticleRecord, error) {
	records, err := s.Searcher.Search(ctx, query, maxResults, apiKey)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	return records, nil
}

// SearchFromNaturalLanguage translates text and searches with the result.
// A failed translation aborts before PubMed is contacted.
func (s *Service) SearchFromNaturalLanguage(ctx context.Context, text, apiKey string) (string, error) {
	tr, err := s.Ask(ctx, text, SearchCap, apiKey)
	if err != nil {
		return "", err
	}
	return search.MarshalJSON(tr.Records)
}

// Ask translates text, then searches with the translated query and cap.
func (s *Service) Ask(ctx context.Context, text string, maxResults int, apiKey string) (Translation, error) {
	tr := Translation{Request: text}
	if s.Translator == nil {
		return tr, errors.New("natural-language search is not configured")
	}

	query, err := s.Translator.Translate(ctx, text)
	if err != nil {
		return tr, err
	}
	tr.Query = query
	logging.OrNop(s.Logger).Info("natural-language search",
		zap.String("request", text),
		zap.String("query", query))

	tr.Records, err = s.SearchRecords(ctx, query, maxResults, apiKey)
	if err != nil {
		return tr, err
	}
	return tr, nil
}

// GetByID returns a JSON array holding zero or one record for pmid.
func (s *Service) GetByID(ctx context.Context, pmid string) (string, error) {
	records, err := s.GetByIDRecords(ctx, pmid, "")
	if err != nil {
		return "", err
	}
	return search.MarshalJSON(records)
}

// GetByIDRecords looks up pmid. Any returned record has exactly that ID;
// anything else PubMed sends back is discarded.
func (s *Service) GetByIDRecords(ctx context.Context, pmid, apiKey string) ([]types.ArticleRecord, error) {
	pmid = strings.TrimSpace(pmid)
	if pmid == "" {
		return nil, ErrEmptyID
	}

	records, err := s.SearchRecords(ctx, IDQuery(pmid), idCap, apiKey)
	if err != nil {
		return nil, err
	}

	out := make([]types.ArticleRecord, 0, idCap)
	for _, r := range records {
		if r.ID == pmid {
			out = append(out, r)
			break
		}
	}
	if len(out) == 0 && len(records) > 0 {
		logging.OrNop(s.Logger).Warn("lookup returned a different article",
			zap.String("pmid", pmid),
			zap.String("got", records[0].ID))
	}
	return out, nil
}
