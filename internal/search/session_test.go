// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSession(t *testing.T) {
	s, err := parseSession([]byte(esearchOK))
	require.NoError(t, err)
	assert.Equal(t, "MCID_6512abc", s.WebEnv)
	assert.Equal(t, "1", s.QueryKey)
	// The nested TranslationStack Count must not shadow the top-level one.
	assert.Equal(t, 1234, s.Count)
	assert.Equal(t, `"cancer"[All Fields]`, s.QueryTranslation)
	assert.False(t, s.Empty())
}

func TestParseSessionNoMatches(t *testing.T) {
	s, err := parseSession([]byte(esearchNoMatches))
	require.NoError(t, err)
	assert.True(t, s.Empty())
}

func TestParseSessionErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		errMsg  string
	}{
		{"missing tokens", esearchNoWebEnv, "no WebEnv"},
		{"missing query key", `<eSearchResult><Count>1</Count><WebEnv>abc</WebEnv></eSearchResult>`, "no QueryKey"},
		{"error element", esearchError, "Invalid query"},
		{"wrong document", `<eFetchResult/>`, "decoding esearch reply"},
		{"not xml", `{"esearchresult":{}}`, "decoding esearch reply"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSession([]byte(tt.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseSessionUnknownCount(t *testing.T) {
	s, err := parseSession([]byte(`<eSearchResult><QueryKey>2</QueryKey><WebEnv>w</WebEnv></eSearchResult>`))
	require.NoError(t, err)
	assert.Equal(t, -1, s.Count)
	assert.False(t, s.Empty())
}
