package search

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	PMID           string    `yaml:"PMID"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes records as a CSL-YAML list to w.
func FormatCSL(records []types.ArticleRecord, w io.Writer) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts an ArticleRecord to a CSLItem. Sentinel values are left
// out rather than exported as real metadata.
func toCSLItem(r types.ArticleRecord) CSLItem {
	item := CSLItem{
		ID:   "pmid" + r.ID,
		Type: "article-journal",
		PMID: r.ID,
		URL:  r.SourceURL,
	}
	if r.Title != types.UntitledSentinel {
		item.Title = r.Title
	}
	if r.Journal != types.UnknownJournal {
		item.ContainerTitle = r.Journal
	}
	if r.Abstract != types.NoAbstractSentinel {
		item.Abstract = r.Abstract
	}

	for _, a := range r.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if parts := dateParts(r.PublicationDateString()); len(parts) > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{parts}}
	}

	return item
}

// parseAuthorName splits a PubMed display name ("LastName ForeName") into
// CSL family/given parts. The family name is the first token; single-token
// names use the family field alone.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.Index(name, " ")
	if idx < 0 {
		return CSLName{Family: name}
	}
	return CSLName{
		Family: name[:idx],
		Given:  strings.TrimSpace(name[idx+1:]),
	}
}

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// dateParts converts "2021", "2021 May" or "2021 May 3" into CSL date-parts.
// Numeric months ("05") are accepted too. Parsing stops at the first part it
// cannot read.
func dateParts(date string) []int {
	fields := strings.Fields(date)
	var parts []int
	for i, f := range fields {
		var n int
		var err error
		switch i {
		case 0, 2:
			n, err = strconv.Atoi(f)
		case 1:
			if m, ok := monthNumbers[strings.ToLower(f[:min(3, len(f))])]; ok {
				n = m
			} else {
				n, err = strconv.Atoi(f)
			}
		default:
			return parts
		}
		if err != nil {
			return parts
		}
		parts = append(parts, n)
	}
	return parts
}
