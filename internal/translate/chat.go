// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/caarlos0/env/v9"

	"github.com/pdiddy/pubmed-mcp/internal/httputil"
	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

// Defaults for an OpenAI-compatible chat-completion endpoint.
const (
	DefaultEndpoint = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	DefaultModel    = "qwen-plus"
)

// ChatCompletionBackend calls an OpenAI-compatible chat-completion API.
type ChatCompletionBackend struct {
	Endpoint  string
	Model     string
	APIKey    string
	UserAgent string
	Client    *http.Client
}

// NewChatCompletionBackend returns a backend for cfg, filling in the default
// endpoint and model.
func NewChatCompletionBackend(cfg types.TranslatorConfig) *ChatCompletionBackend {
	b := &ChatCompletionBackend{
		Endpoint:  cfg.Endpoint,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
		Client:    httputil.NewClient(cfg.Timeout),
	}
	if b.Endpoint == "" {
		b.Endpoint = DefaultEndpoint
	}
	if b.Model == "" {
		b.Model = DefaultModel
	}
	return b
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends messages and returns the first choice's content. All
// failures are reported as *TranslationError.
func (c *ChatCompletionBackend) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.APIKey == "" {
		return "", &TranslationError{Err: errors.New("no LLM API key configured")}
	}

	body, err := json.Marshal(chatRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return "", &TranslationError{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TranslationError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(c.APIKey))
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &TranslationError{Err: fmt.Errorf("calling completion API: %w", err)}
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp); err != nil {
		return "", &TranslationError{Err: err}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", &TranslationError{Err: fmt.Errorf("decoding completion response: %w", err)}
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == nil {
		return "", &TranslationError{Err: errors.New("completion response has no choices[0].message.content")}
	}
	return *cr.Choices[0].Message.Content, nil
}

// bearer accepts keys given with or without the scheme prefix.
func bearer(key string) string {
	if strings.HasPrefix(strings.ToLower(key), "bearer ") {
		return key
	}
	return "Bearer " + key
}

// llmEnv holds translator settings read from the environment.
type llmEnv struct {
	APIKey   string `env:"LLM_API_KEY"`
	Endpoint string `env:"LLM_ENDPOINT"`
	Model    string `env:"LLM_MODEL"`
}

// envPrefix is the prefix shared with the rest of the configuration.
const envPrefix = "PUBMED_MCP_"

// ApplyEnv overlays PUBMED_MCP_LLM_API_KEY, PUBMED_MCP_LLM_ENDPOINT and
// PUBMED_MCP_LLM_MODEL onto cfg. The bare LLM_API_KEY variable is honoured
// as a fallback credential.
func ApplyEnv(cfg types.TranslatorConfig) (types.TranslatorConfig, error) {
	var prefixed llmEnv
	if err := env.ParseWithOptions(&prefixed, env.Options{Prefix: envPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing translator environment: %w", err)
	}
	if prefixed.APIKey != "" {
		cfg.APIKey = prefixed.APIKey
	}
	if prefixed.Endpoint != "" {
		cfg.Endpoint = prefixed.Endpoint
	}
	if prefixed.Model != "" {
		cfg.Model = prefixed.Model
	}

	if cfg.APIKey == "" {
		var bare llmEnv
		if err := env.Parse(&bare); err != nil {
			return cfg, fmt.Errorf("parsing translator environment: %w", err)
		}
		cfg.APIKey = bare.APIKey
	}
	return cfg, nil
}
