// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate converts free-text literature requests, in English or
// another language, into PubMed advanced search syntax by delegating to a
// chat-completion model.
package translate

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-mcp/internal/logging"
)

var (
	// ErrEmptyRequest is returned when there is no text to translate.
	ErrEmptyRequest = errors.New("empty natural-language request")

	// ErrEmptyTranslation is returned when the model answers with nothing
	// usable as a query.
	ErrEmptyTranslation = errors.New("model returned an empty query")
)

// TranslationError reports a failure to obtain a query from the model. A
// search that depends on the translation must not proceed.
type TranslationError struct {
	Err error
}

func (e *TranslationError) Error() string {
	return "translating query: " + e.Err.Error()
}

func (e *TranslationError) Unwrap() error { return e.Err }

// Message is one chat turn sent to the completion backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionBackend abstracts the chat-completion provider so tests can
// supply a mock.
type CompletionBackend interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Translator turns natural-language requests into PubMed queries.
type Translator struct {
	Backend CompletionBackend
	Logger  *zap.Logger

	// Now supplies the current time for resolving relative date ranges.
	// Nil means time.Now.
	Now func() time.Time
}

// New returns a Translator using backend.
func New(backend CompletionBackend, log *zap.Logger) *Translator {
	return &Translator{Backend: backend, Logger: logging.OrNop(log)}
}

// Translate asks the backend for a PubMed query matching text. Every failure,
// including an empty answer, is returned as a *TranslationError.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &TranslationError{Err: ErrEmptyRequest}
	}
	if t.Backend == nil {
		return "", &TranslationError{Err: errors.New("no completion backend configured")}
	}

	msgs, err := t.Messages(text)
	if err != nil {
		return "", &TranslationError{Err: err}
	}

	out, err := t.Backend.Complete(ctx, msgs)
	if err != nil {
		var te *TranslationError
		if errors.As(err, &te) {
			return "", err
		}
		return "", &TranslationError{Err: err}
	}

	query := cleanQuery(out)
	if query == "" {
		return "", &TranslationError{Err: ErrEmptyTranslation}
	}

	logging.OrNop(t.Logger).Debug("translated query",
		zap.String("request", text),
		zap.String("query", query))
	return query, nil
}

// Messages returns the chat turns Translate sends for text.
func (t *Translator) Messages(text string) ([]Message, error) {
	prompt, err := renderPrompt(text, t.now())
	if err != nil {
		return nil, err
	}
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}, nil
}

func (t *Translator) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// fenceTags are the opening-line labels models put on fenced queries.
var fenceTags = map[string]bool{
	"":       true,
	"text":   true,
	"txt":    true,
	"plain":  true,
	"pubmed": true,
	"query":  true,
	"sql":    true,
}

// cleanQuery trims the model answer and removes Markdown code formatting
// around it. Quotes are kept since they are meaningful in PubMed phrases.
func cleanQuery(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6 {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
		// Drop the opening line when it is empty or a language tag such as ```text.
		if i := strings.IndexByte(s, '\n'); i >= 0 && fenceTags[strings.ToLower(strings.TrimSpace(s[:i]))] {
			s = s[i+1:]
		}
		s = strings.TrimSpace(s)
	}

	if len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
