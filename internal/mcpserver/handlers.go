// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-mcp/internal/translate"
)

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query parameter required: %v", err)), nil
	}
	apiKey := request.GetString("api_key", "")

	out, err := s.retriever.Search(ctx, query, apiKey)
	if err != nil {
		return s.toolError(ToolSearch, err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleNaturalLanguage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("content parameter required: %v", err)), nil
	}
	apiKey := request.GetString("api_key", "")

	out, err := s.retriever.SearchFromNaturalLanguage(ctx, content, apiKey)
	if err != nil {
		return s.toolError(ToolNaturalLanguage, err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleArticleDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pmid, err := request.RequireString("pmid")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pmid parameter required: %v", err)), nil
	}

	out, err := s.retriever.GetByID(ctx, pmid)
	if err != nil {
		return s.toolError(ToolArticleDetails, err), nil
	}
	return mcp.NewToolResultText(out), nil
}

// readArticle resolves article://{pmid}. The PMID is read from the URI
// itself so the handler does not depend on template argument binding.
func (s *Server) readArticle(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	pmid := strings.Trim(strings.TrimPrefix(uri, articleURIScheme), "/")
	if pmid == "" || pmid == uri {
		return nil, fmt.Errorf("invalid article URI %q", uri)
	}

	out, err := s.retriever.GetByID(ctx, pmid)
	if err != nil {
		s.logger.Warn("article resource failed", zap.String("uri", uri), zap.Error(err))
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     out,
		},
	}, nil
}

// handleConvertPrompt returns the translation instruction so the host's own
// model can produce the query.
func (s *Server) handleConvertPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	query := request.Params.Arguments["query"]
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query argument required")
	}

	prompt, err := translate.Prompt(query)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	return mcp.NewGetPromptResult(
		"Convert a natural-language query to PubMed search syntax",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(prompt)),
		},
	), nil
}

// toolError logs err and converts it to an MCP tool error so the calling
// model can read what went wrong.
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	s.logger.Warn("tool call failed", zap.String("tool", tool), zap.Error(err))
	return mcp.NewToolResultError(err.Error())
}
