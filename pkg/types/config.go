// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no client-side timeout;
	// callers bound latency through the request context instead.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-mcp/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// PubMedConfig holds settings for the E-utilities search client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root, e.g.
	// "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/". Empty uses the default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey is the default NCBI API key. A per-call key takes precedence.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Tool and Email identify the client to NCBI as its usage policy asks.
	Tool  string `json:"tool,omitempty" yaml:"tool,omitempty" mapstructure:"tool"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// MaxRetries enables exponential backoff on HTTP 429. Zero (the default)
	// sends each request exactly once.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// TranslatorConfig holds settings for the natural-language query translator.
type TranslatorConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Endpoint is the chat-completion URL.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// Model is the model identifier sent with each completion request.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the bearer credential. Normally left empty in files and
	// supplied through the environment.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`
}

// LibraryConfig holds settings for the local article library.
type LibraryConfig struct {
	// Dir is the directory holding library.db and exports.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// LogConfig selects the logger flavour.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Development switches to the human-readable console encoder.
	Development bool `json:"development" yaml:"development" mapstructure:"development"`
}

// Config groups all stage configurations.
type Config struct {
	PubMed     PubMedConfig     `json:"pubmed" yaml:"pubmed" mapstructure:"pubmed"`
	Translator TranslatorConfig `json:"translator" yaml:"translator" mapstructure:"translator"`
	Library    LibraryConfig    `json:"library" yaml:"library" mapstructure:"library"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
