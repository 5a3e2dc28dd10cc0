// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when Search is called without search terms.
var ErrEmptyQuery = errors.New("query is empty: provide a PubMed search expression")

// Phases of the E-utilities protocol, used in ProtocolError.
const (
	PhaseSearch = "esearch"
	PhaseFetch  = "efetch"
)

// ProtocolError reports a failed or malformed exchange with E-utilities:
// transport failures, non-2xx statuses, missing history tokens, or a payload
// that is not the expected XML document.
type ProtocolError struct {
	Phase string
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("pubmed %s: %v", e.Phase, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// RecordParseError reports a single citation that could not be extracted.
// It is logged and the citation skipped; it never reaches the caller of Search.
type RecordParseError struct {
	// Index is the zero-based position of the citation in the efetch payload.
	Index int
	Err   error
}

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("citation %d: %v", e.Index, e.Err)
}

func (e *RecordParseError) Unwrap() error { return e.Err }
