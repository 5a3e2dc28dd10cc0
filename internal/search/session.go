// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Session is the server-side result set created by one esearch call. It is
// handed by value from the search phase to the fetch phase of a single Search
// and then dropped.
type Session struct {
	WebEnv   string
	QueryKey string

	// Count is the total number of matches, or -1 when NCBI did not report it.
	Count int

	// QueryTranslation is how PubMed interpreted the term, for logging.
	QueryTranslation string
}

// eSearchResult is the subset of the esearch XML reply we read.
type eSearchResult struct {
	XMLName          xml.Name `xml:"eSearchResult"`
	Count            string   `xml:"Count"`
	RetMax           string   `xml:"RetMax"`
	QueryKey         string   `xml:"QueryKey"`
	WebEnv           string   `xml:"WebEnv"`
	IDs              []string `xml:"IdList>Id"`
	QueryTranslation string   `xml:"QueryTranslation"`
	Errors           []string `xml:"ERROR"`
}

// parseSession decodes an esearch payload into a Session. Missing history
// tokens or an ERROR element make the reply unusable.
func parseSession(payload []byte) (Session, error) {
	var r eSearchResult
	if err := xml.Unmarshal(payload, &r); err != nil {
		return Session{}, fmt.Errorf("decoding esearch reply: %w", err)
	}
	if len(r.Errors) > 0 {
		return Session{}, fmt.Errorf("esearch reported: %s", strings.Join(r.Errors, "; "))
	}

	s := Session{
		WebEnv:           strings.TrimSpace(r.WebEnv),
		QueryKey:         strings.TrimSpace(r.QueryKey),
		Count:            -1,
		QueryTranslation: strings.TrimSpace(r.QueryTranslation),
	}
	if s.WebEnv == "" {
		return Session{}, errors.New("esearch reply has no WebEnv")
	}
	if s.QueryKey == "" {
		return Session{}, errors.New("esearch reply has no QueryKey")
	}
	if n, err := strconv.Atoi(strings.TrimSpace(r.Count)); err == nil {
		s.Count = n
	}
	return s, nil
}

// Empty reports whether NCBI said the search matched nothing.
func (s Session) Empty() bool { return s.Count == 0 }
