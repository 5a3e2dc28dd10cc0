// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

type fakeFetcher struct {
	mu       sync.Mutex
	calls    []string
	inFlight atomic.Int32
	peak     atomic.Int32
	fail     string
}

func (f *fakeFetcher) GetByIDRecords(ctx context.Context, pmid, apiKey string) ([]types.ArticleRecord, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, pmid+"|"+apiKey)
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)
	if pmid == f.fail {
		return nil, errors.New("boom")
	}
	if pmid == "missing" {
		return []types.ArticleRecord{}, nil
	}
	return []types.ArticleRecord{{ID: pmid, Title: "t" + pmid}}, nil
}

func TestFetchAllKeepsOrder(t *testing.T) {
	f := &fakeFetcher{}
	pmids := []string{"5", "4", "missing", "3", "2", "1"}

	got, err := fetchAll(context.Background(), f, pmids, "key", 2)
	require.NoError(t, err)

	var ids []string
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, ids)
	assert.Len(t, f.calls, len(pmids))
	assert.Contains(t, f.calls, "3|key")
	if p := f.peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}
}

func TestFetchAllError(t *testing.T) {
	f := &fakeFetcher{fail: "2"}
	_, err := fetchAll(context.Background(), f, []string{"1", "2", "3"}, "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching 2")
}

func TestWriteRecords(t *testing.T) {
	records := []types.ArticleRecord{{
		ID:        "1",
		Title:     "A title",
		Authors:   []string{"Smith John"},
		Journal:   "Nature",
		Abstract:  "text",
		SourceURL: types.ArticleURL("1"),
	}}

	tests := []struct {
		format string
		want   string
	}{
		{formatJSON, `"pmid": "1"`},
		{"", `"pmid": "1"`},
		{formatTable, "A title"},
		{formatCSL, "container-title: Nature"},
		{formatMD, "[1](https://pubmed.ncbi.nlm.nih.gov/1/)"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeRecords(&buf, records, tt.format))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	var buf bytes.Buffer
	err := writeRecords(&buf, records, "xml")
	assert.ErrorContains(t, err, "unsupported format")
}
