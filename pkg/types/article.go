// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for pubmed-mcp: the article
// record produced by retrieval and the configuration for each stage.
package types

import "strings"

// Sentinels used when a citation omits an optional field.
const (
	UntitledSentinel   = "untitled"
	UnknownJournal     = "unknown"
	NoAbstractSentinel = "no abstract"
)

// ArticleURLTemplate builds the public PubMed page for a PMID.
const ArticleURLTemplate = "https://pubmed.ncbi.nlm.nih.gov/%s/"

// ArticleRecord is one citation extracted from an efetch response.
type ArticleRecord struct {
	// ID is the PubMed identifier (PMID). Never empty for a returned record.
	ID string `json:"pmid" yaml:"pmid"`

	// Title is the article title, or UntitledSentinel.
	Title string `json:"title" yaml:"title"`

	// Authors lists display names in source order ("LastName ForeName", or
	// LastName alone when no fore name is given).
	Authors []string `json:"authors" yaml:"authors"`

	// Journal is the journal title, or UnknownJournal.
	Journal string `json:"journal" yaml:"journal"`

	// PublicationDate is "Year", "Year Month" or "Year Month Day". Nil when
	// the citation carries no year.
	PublicationDate *string `json:"publication_date" yaml:"publication_date"`

	// Abstract joins every AbstractText fragment with a single space, or
	// NoAbstractSentinel.
	Abstract string `json:"abstract" yaml:"abstract"`

	// SourceURL is derived from ID via ArticleURLTemplate.
	SourceURL string `json:"url" yaml:"url"`
}

// ArticleURL returns the PubMed page for pmid.
func ArticleURL(pmid string) string {
	return strings.Replace(ArticleURLTemplate, "%s", pmid, 1)
}

// PublicationDateString returns the publication date or "" when absent.
func (r ArticleRecord) PublicationDateString() string {
	if r.PublicationDate == nil {
		return ""
	}
	return *r.PublicationDate
}

// Year returns the leading year of the publication date, or "".
func (r ArticleRecord) Year() string {
	d := r.PublicationDateString()
	if i := strings.IndexByte(d, ' '); i >= 0 {
		return d[:i]
	}
	return d
}
