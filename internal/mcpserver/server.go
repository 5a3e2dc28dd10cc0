// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcpserver exposes retrieval as MCP tools, an article resource
// template, and a query-conversion prompt served over stdio.
package mcpserver

import (
	"context"
	"errors"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-mcp/internal/logging"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "PubMed"

// Tool, resource, and prompt names.
const (
	ToolSearch            = "search_pubmed_articles"
	ToolNaturalLanguage   = "search_by_natural_language"
	ToolArticleDetails    = "get_article_details"
	ArticleURITemplate    = "article://{pmid}"
	articleURIScheme      = "article://"
	PromptConvertToPubMed = "convert_to_pubmed_query"
)

// Retriever is the subset of retrieval.Service the server calls.
type Retriever interface {
	Search(ctx context.Context, query, apiKey string) (string, error)
	SearchFromNaturalLanguage(ctx context.Context, text, apiKey string) (string, error)
	GetByID(ctx context.Context, pmid string) (string, error)
}

// Server wraps an mcp-go server wired to a Retriever.
type Server struct {
	retriever Retriever
	logger    *zap.Logger
	mcp       *server.MCPServer
}

// New builds the MCP server and registers every tool, the article resource
// template, and the conversion prompt.
func New(r Retriever, version string, log *zap.Logger) *Server {
	s := &Server{retriever: r, logger: logging.OrNop(log)}
	s.mcp = server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
	)

	s.addTools()
	s.addResources()
	s.addPrompts()
	return s
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Serve speaks MCP over in/out until ctx is cancelled or in is closed.
// Diagnostics go to the logger; out carries protocol frames only.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	s.logger.Info("serving MCP over stdio", zap.String("name", ServerName))
	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Server) addTools() {
	s.mcp.AddTool(mcp.NewTool(ToolSearch,
		mcp.WithDescription("Search PubMed articles using PubMed advanced search syntax. Returns up to 3 articles as a JSON array."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("PubMed advanced search syntax, e.g. Smith[AU] AND cancer[TI]"),
		),
		mcp.WithString("api_key",
			mcp.Description("NCBI API key for higher rate limits"),
		),
	), s.handleSearch)

	s.mcp.AddTool(mcp.NewTool(ToolNaturalLanguage,
		mcp.WithDescription("Search PubMed articles from a natural-language request in English or Chinese. The request is converted to PubMed syntax first. Returns up to 3 articles as a JSON array."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The natural-language request"),
		),
		mcp.WithString("api_key",
			mcp.Description("NCBI API key for higher rate limits"),
		),
	), s.handleNaturalLanguage)

	s.mcp.AddTool(mcp.NewTool(ToolArticleDetails,
		mcp.WithDescription("Get details for a specific PubMed article by PMID"),
		mcp.WithString("pmid",
			mcp.Required(),
			mcp.Description("PubMed ID of the article"),
		),
	), s.handleArticleDetails)
}

func (s *Server) addResources() {
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(ArticleURITemplate, "PubMed article",
			mcp.WithTemplateDescription("Details for a specific PubMed article by PMID"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.readArticle,
	)
}

func (s *Server) addPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt(PromptConvertToPubMed,
		mcp.WithPromptDescription("Convert a natural-language query in Chinese or English to PubMed advanced search syntax"),
		mcp.WithArgument("query",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("Natural-language query in Chinese or English"),
		),
	), s.handleConvertPrompt)
}
