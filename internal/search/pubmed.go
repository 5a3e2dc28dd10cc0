// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-mcp/internal/httputil"
	"github.com/pdiddy/pubmed-mcp/internal/logging"
	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

// eutilsBase is the E-utilities root. Declared as a var so tests can
// substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

const (
	pubmedDB = "pubmed"

	// DefaultMaxResults is the result cap used when the caller passes none.
	DefaultMaxResults = 3
)

// PubMedClient runs the two-phase E-utilities protocol: esearch stores the
// result set on NCBI's history server, then efetch retrieves the abstracts by
// WebEnv and query key without resending the search term.
//
// A PubMedClient holds no per-request state and is safe for concurrent use.
type PubMedClient struct {
	Client *http.Client
	Config types.PubMedConfig
	Logger *zap.Logger
}

// NewPubMedClient returns a client for cfg with an HTTP client honouring
// cfg.Timeout.
func NewPubMedClient(cfg types.PubMedConfig, log *zap.Logger) *PubMedClient {
	return &PubMedClient{
		Client: httputil.NewClient(cfg.Timeout),
		Config: cfg,
		Logger: logging.OrNop(log),
	}
}

// Name returns the backend identifier.
func (c *PubMedClient) Name() string { return pubmedDB }

// Search runs esearch then efetch for query and returns up to maxResults
// records. maxResults <= 0 means DefaultMaxResults. apiKey, when non-empty,
// overrides the configured key and is sent on both phases.
func (c *PubMedClient) Search(ctx context.Context, query string, maxResults int, apiKey string) ([]types.ArticleRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if apiKey == "" {
		apiKey = c.Config.APIKey
	}

	session, err := c.ESearch(ctx, query, maxResults, apiKey)
	if err != nil {
		return nil, err
	}

	log := c.logger()
	if session.Count >= 0 {
		log.Info("pubmed search",
			zap.String("query", query),
			zap.String("translation", session.QueryTranslation),
			zap.Int("found", session.Count),
			zap.Int("showing", min(session.Count, maxResults)))
	}
	if session.Empty() {
		return []types.ArticleRecord{}, nil
	}

	return c.EFetch(ctx, session, maxResults, apiKey)
}

// ESearch submits query with usehistory=y and returns the resulting Session.
func (c *PubMedClient) ESearch(ctx context.Context, query string, maxResults int, apiKey string) (Session, error) {
	params := url.Values{
		"db":         {pubmedDB},
		"term":       {query},
		"retmax":     {strconv.Itoa(maxResults)},
		"usehistory": {"y"},
		"retmode":    {"xml"},
	}
	body, err := c.get(ctx, PhaseSearch, "esearch.fcgi", params, apiKey)
	if err != nil {
		return Session{}, err
	}

	s, err := parseSession(body)
	if err != nil {
		return Session{}, &ProtocolError{Phase: PhaseSearch, Err: err}
	}
	return s, nil
}

// EFetch retrieves abstracts for the result set held by s.
func (c *PubMedClient) EFetch(ctx context.Context, s Session, maxResults int, apiKey string) ([]types.ArticleRecord, error) {
	params := url.Values{
		"db":        {pubmedDB},
		"query_key": {s.QueryKey},
		"WebEnv":    {s.WebEnv},
		"retmax":    {strconv.Itoa(maxResults)},
		"retmode":   {"xml"},
		"rettype":   {"abstract"},
	}
	body, err := c.get(ctx, PhaseFetch, "efetch.fcgi", params, apiKey)
	if err != nil {
		return nil, err
	}
	return ParseArticles(body, c.logger())
}

// get issues one GET against an E-utilities endpoint and returns the body.
// Any failure is reported as a *ProtocolError for phase.
func (c *PubMedClient) get(ctx context.Context, phase, endpoint string, params url.Values, apiKey string) ([]byte, error) {
	if apiKey != "" {
		params.Set("api_key", apiKey)
	}
	if c.Config.Tool != "" {
		params.Set("tool", c.Config.Tool)
	}
	if c.Config.Email != "" {
		params.Set("email", c.Config.Email)
	}

	reqURL := c.endpoint(endpoint) + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &ProtocolError{Phase: phase, Err: fmt.Errorf("creating request: %w", err)}
	}
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, c.Config.MaxRetries)
	if err != nil {
		return nil, &ProtocolError{Phase: phase, Err: err}
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp); err != nil {
		return nil, &ProtocolError{Phase: phase, Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProtocolError{Phase: phase, Err: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}

func (c *PubMedClient) endpoint(name string) string {
	base := c.Config.BaseURL
	if base == "" {
		base = eutilsBase
	}
	return strings.TrimSuffix(base, "/") + "/" + name
}

func (c *PubMedClient) logger() *zap.Logger {
	return logging.OrNop(c.Logger)
}
