// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-mcp/internal/httputil"
	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

// eutilsStub serves canned esearch/efetch replies and records every request.
type eutilsStub struct {
	mu           sync.Mutex
	esearch      string
	efetch       string
	esearchCode  int
	efetchCode   int
	searchParams []url.Values
	fetchParams  []url.Values
	userAgents   []string
}

func (s *eutilsStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userAgents = append(s.userAgents, r.UserAgent())

	switch r.URL.Path {
	case "/esearch.fcgi":
		s.searchParams = append(s.searchParams, r.URL.Query())
		if s.esearchCode != 0 {
			w.WriteHeader(s.esearchCode)
		}
		fmt.Fprint(w, s.esearch)
	case "/efetch.fcgi":
		s.fetchParams = append(s.fetchParams, r.URL.Query())
		if s.efetchCode != 0 {
			w.WriteHeader(s.efetchCode)
		}
		fmt.Fprint(w, s.efetch)
	default:
		http.NotFound(w, r)
	}
}

// newStubClient points eutilsBase at stub for the duration of the test.
func newStubClient(t *testing.T, stub *eutilsStub, cfg types.PubMedConfig) *PubMedClient {
	t.Helper()
	ts := httptest.NewServer(stub)
	t.Cleanup(ts.Close)

	old := eutilsBase
	eutilsBase = ts.URL + "/"
	t.Cleanup(func() { eutilsBase = old })

	c := NewPubMedClient(cfg, nil)
	c.Client = ts.Client()
	return c
}

func TestSearchTwoPhases(t *testing.T) {
	stub := &eutilsStub{esearch: esearchOK, efetch: efetchTwoArticles}
	c := newStubClient(t, stub, types.PubMedConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "pubmed-mcp/test"},
		Tool:       "pubmed-mcp",
		Email:      "dev@example.com",
	})

	records, err := c.Search(context.Background(), "cancer immunotherapy", 5, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "34000001", records[0].ID)

	require.Len(t, stub.searchParams, 1)
	sp := stub.searchParams[0]
	assert.Equal(t, "pubmed", sp.Get("db"))
	assert.Equal(t, "cancer immunotherapy", sp.Get("term"))
	assert.Equal(t, "5", sp.Get("retmax"))
	assert.Equal(t, "y", sp.Get("usehistory"))
	assert.Equal(t, "xml", sp.Get("retmode"))
	assert.Equal(t, "pubmed-mcp", sp.Get("tool"))
	assert.Equal(t, "dev@example.com", sp.Get("email"))
	assert.False(t, sp.Has("api_key"))

	require.Len(t, stub.fetchParams, 1)
	fp := stub.fetchParams[0]
	assert.Equal(t, "pubmed", fp.Get("db"))
	assert.Equal(t, "1", fp.Get("query_key"))
	assert.Equal(t, "MCID_6512abc", fp.Get("WebEnv"))
	assert.Equal(t, "5", fp.Get("retmax"))
	assert.Equal(t, "xml", fp.Get("retmode"))
	assert.Equal(t, "abstract", fp.Get("rettype"))
	assert.False(t, fp.Has("term"), "efetch must reuse the history session, not resend the term")

	assert.Equal(t, []string{"pubmed-mcp/test", "pubmed-mcp/test"}, stub.userAgents)
}

func TestSearchAPIKeyOnBothPhases(t *testing.T) {
	tests := []struct {
		name      string
		cfgKey    string
		callKey   string
		wantKey   string
		wantIsSet bool
	}{
		{"per-call key", "", "call-key", "call-key", true},
		{"configured key", "cfg-key", "", "cfg-key", true},
		{"per-call key wins", "cfg-key", "call-key", "call-key", true},
		{"no key", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &eutilsStub{esearch: esearchOK, efetch: efetchEmpty}
			c := newStubClient(t, stub, types.PubMedConfig{APIKey: tt.cfgKey})

			_, err := c.Search(context.Background(), "x", 0, tt.callKey)
			require.NoError(t, err)

			for _, p := range []url.Values{stub.searchParams[0], stub.fetchParams[0]} {
				assert.Equal(t, tt.wantIsSet, p.Has("api_key"))
				assert.Equal(t, tt.wantKey, p.Get("api_key"))
			}
		})
	}
}

func TestSearchDefaultCap(t *testing.T) {
	stub := &eutilsStub{esearch: esearchOK, efetch: efetchEmpty}
	c := newStubClient(t, stub, types.PubMedConfig{})

	_, err := c.Search(context.Background(), "x", 0, "")
	require.NoError(t, err)
	assert.Equal(t, "3", stub.searchParams[0].Get("retmax"))
	assert.Equal(t, "3", stub.fetchParams[0].Get("retmax"))
}

func TestSearchNoMatchesSkipsFetch(t *testing.T) {
	stub := &eutilsStub{esearch: esearchNoMatches, efetch: "should not be requested"}
	c := newStubClient(t, stub, types.PubMedConfig{})

	records, err := c.Search(context.Background(), "zzzqqq", 3, "")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Empty(t, stub.fetchParams)
}

func TestSearchMissingHistoryTokens(t *testing.T) {
	stub := &eutilsStub{esearch: esearchNoWebEnv, efetch: efetchTwoArticles}
	c := newStubClient(t, stub, types.PubMedConfig{})

	records, err := c.Search(context.Background(), "cancer", 3, "")
	assert.Nil(t, records)

	var perr *ProtocolError
	require.True(t, errors.As(err, &perr), "want *ProtocolError, got %v", err)
	assert.Equal(t, PhaseSearch, perr.Phase)
	assert.Empty(t, stub.fetchParams, "efetch must not run without a session")
}

func TestSearchHTTPFailures(t *testing.T) {
	tests := []struct {
		name      string
		stub      *eutilsStub
		wantPhase string
		wantCode  int
	}{
		{
			name:      "esearch 500",
			stub:      &eutilsStub{esearch: "boom", esearchCode: http.StatusInternalServerError},
			wantPhase: PhaseSearch,
			wantCode:  http.StatusInternalServerError,
		},
		{
			name:      "esearch 429 is not retried",
			stub:      &eutilsStub{esearch: "slow down", esearchCode: http.StatusTooManyRequests},
			wantPhase: PhaseSearch,
			wantCode:  http.StatusTooManyRequests,
		},
		{
			name:      "efetch 502",
			stub:      &eutilsStub{esearch: esearchOK, efetch: "bad gateway", efetchCode: http.StatusBadGateway},
			wantPhase: PhaseFetch,
			wantCode:  http.StatusBadGateway,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newStubClient(t, tt.stub, types.PubMedConfig{})

			_, err := c.Search(context.Background(), "cancer", 3, "")
			var perr *ProtocolError
			require.True(t, errors.As(err, &perr), "want *ProtocolError, got %v", err)
			assert.Equal(t, tt.wantPhase, perr.Phase)

			var se *httputil.StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantCode, se.StatusCode)
			assert.Len(t, tt.stub.searchParams, 1)
		})
	}
}

func TestSearchTransportFailure(t *testing.T) {
	c := NewPubMedClient(types.PubMedConfig{BaseURL: "http://127.0.0.1:1/"}, nil)

	_, err := c.Search(context.Background(), "cancer", 3, "")
	var perr *ProtocolError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, PhaseSearch, perr.Phase)
}

func TestSearchEmptyQuery(t *testing.T) {
	stub := &eutilsStub{}
	c := newStubClient(t, stub, types.PubMedConfig{})

	for _, q := range []string{"", "   "} {
		_, err := c.Search(context.Background(), q, 3, "")
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.Empty(t, stub.searchParams)
}

func TestSearchConfiguredBaseURL(t *testing.T) {
	stub := &eutilsStub{esearch: esearchOK, efetch: efetchEmpty}
	ts := httptest.NewServer(stub)
	defer ts.Close()

	// No trailing slash: endpoint joining must still produce /esearch.fcgi.
	c := NewPubMedClient(types.PubMedConfig{BaseURL: ts.URL}, nil)
	c.Client = ts.Client()

	_, err := c.Search(context.Background(), "x", 1, "")
	require.NoError(t, err)
	assert.Len(t, stub.searchParams, 1)
	assert.Len(t, stub.fetchParams, 1)
}

func TestSearchContextCancelled(t *testing.T) {
	stub := &eutilsStub{esearch: esearchOK, efetch: efetchEmpty}
	c := newStubClient(t, stub, types.PubMedConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Search(ctx, "x", 1, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPubMedClientName(t *testing.T) {
	assert.Equal(t, "pubmed", (&PubMedClient{}).Name())
}
