// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-mcp/internal/logging"
	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

const articleSetElement = "PubmedArticleSet"

// citationElements are the efetch elements that each describe one citation.
var citationElements = map[string]bool{
	"PubmedArticle":     true,
	"PubmedBookArticle": true,
}

// ParseArticles extracts article records from an efetch payload. A payload
// that is not a PubmedArticleSet document is a *ProtocolError. A citation
// that cannot be extracted is logged and skipped; the rest are still returned.
func ParseArticles(payload []byte, log *zap.Logger) ([]types.ArticleRecord, error) {
	log = logging.OrNop(log)

	root, err := decodeTree(payload)
	if err != nil {
		return nil, &ProtocolError{Phase: PhaseFetch, Err: fmt.Errorf("decoding efetch reply: %w", err)}
	}
	if root.name != articleSetElement {
		return nil, &ProtocolError{Phase: PhaseFetch, Err: fmt.Errorf("unexpected document element <%s>, want <%s>", root.name, articleSetElement)}
	}

	var citations []*node
	root.walk(func(n *node) bool {
		if citationElements[n.name] {
			citations = append(citations, n)
		}
		return true
	})

	records := make([]types.ArticleRecord, 0, len(citations))
	for i, c := range citations {
		rec, err := extractRecord(c)
		if err != nil {
			perr := &RecordParseError{Index: i, Err: err}
			log.Warn("skipping citation", zap.Int("index", i), zap.Error(perr))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// extractRecord builds one ArticleRecord. Only the PMID is mandatory; every
// other field falls back to its sentinel.
func extractRecord(c *node) (types.ArticleRecord, error) {
	pmid, ok := firstText(c, "PMID")
	if !ok {
		return types.ArticleRecord{}, errors.New("missing PMID")
	}

	title, ok := firstText(c, "ArticleTitle")
	if !ok {
		title, ok = firstText(c, "BookTitle")
	}
	if !ok {
		title = types.UntitledSentinel
	}

	journal, ok := firstText(c, "Journal/Title")
	if !ok {
		journal = types.UnknownJournal
	}

	return types.ArticleRecord{
		ID:              pmid,
		Title:           title,
		Authors:         authorNames(c),
		Journal:         journal,
		PublicationDate: publicationDate(c),
		Abstract:        abstractText(c),
		SourceURL:       types.ArticleURL(pmid),
	}, nil
}

// authorNames returns "LastName ForeName" per author, LastName alone when the
// fore name is missing. Authors with no LastName (collectives) are omitted.
func authorNames(c *node) []string {
	names := []string{}
	for _, a := range c.findAll("Author") {
		last, ok := childText(a, "LastName")
		if !ok {
			continue
		}
		if fore, ok := childText(a, "ForeName"); ok {
			names = append(names, last+" "+fore)
			continue
		}
		names = append(names, last)
	}
	return names
}

// publicationDate concatenates year, month and day from PubDate, each only
// when every coarser part is present. Nil when there is no year.
func publicationDate(c *node) *string {
	year, ok := firstText(c, "PubDate/Year")
	if !ok {
		return nil
	}
	date := year
	if month, ok := firstText(c, "PubDate/Month"); ok {
		date += " " + month
		if day, ok := firstText(c, "PubDate/Day"); ok {
			date += " " + day
		}
	}
	return &date
}

func abstractText(c *node) string {
	var parts []string
	for _, n := range c.findAll("AbstractText") {
		if n.text != "" {
			parts = append(parts, n.text)
		}
	}
	if len(parts) == 0 {
		return types.NoAbstractSentinel
	}
	return strings.Join(parts, " ")
}
