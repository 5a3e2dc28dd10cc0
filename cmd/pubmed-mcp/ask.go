// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-mcp/internal/retrieval"
	"github.com/pdiddy/pubmed-mcp/internal/search"
	"github.com/pdiddy/pubmed-mcp/internal/translate"
)

var askCmd = &cobra.Command{
	Use:   "ask [request]",
	Short: "Search PubMed with a natural-language request",
	Long: `Ask translates a natural-language request into a PubMed query with the
configured chat-completion model, then runs the query. The translated query is
printed to stderr; results go to stdout.

The model credential comes from PUBMED_MCP_LLM_API_KEY, LLM_API_KEY, or
.secrets/llm-api-key.`,
	RunE: runAsk,
}

var translateCmd = &cobra.Command{
	Use:   "translate [request]",
	Short: "Translate a natural-language request into a PubMed query",
	Long: `Translate prints the PubMed query the model produces for a request
without searching. With --prompt it prints the instruction that would be sent
to the model instead, which needs no credential.`,
	RunE: runTranslate,
}

func init() {
	askCmd.Flags().String("query", "", "natural-language request (alternative to positional args)")
	askCmd.Flags().Int("max-results", retrieval.SearchCap, "maximum number of articles to fetch")
	askCmd.Flags().String("api-key", "", "NCBI API key")
	askCmd.Flags().String("save", "", "write the translated query and results to this YAML file")
	addFormatFlag(askCmd)

	translateCmd.Flags().String("query", "", "natural-language request (alternative to positional args)")
	translateCmd.Flags().Bool("prompt", false, "print the model instruction instead of calling the model")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(translateCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	text := queryText(cmd, args)
	if text == "" {
		return fmt.Errorf("provide a request as arguments or with --query")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	apiKey, _ := cmd.Flags().GetString("api-key")
	format, _ := cmd.Flags().GetString("format")

	svc, err := newService()
	if err != nil {
		return err
	}
	tr, err := svc.Ask(context.Background(), text, maxResults, apiKey)
	if tr.Query != "" {
		fmt.Fprintf(os.Stderr, "Query: %s\n", tr.Query)
	}
	if err != nil {
		return err
	}

	params := search.QueryParams{Term: tr.Query, NaturalLanguage: tr.Request, MaxResults: maxResults}
	if err := saveQuery(cmd, params, tr.Records); err != nil {
		return err
	}
	return writeRecords(os.Stdout, tr.Records, format)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	text := queryText(cmd, args)
	if text == "" {
		return fmt.Errorf("provide a request as arguments or with --query")
	}

	if asPrompt, _ := cmd.Flags().GetBool("prompt"); asPrompt {
		p, err := translate.Prompt(text)
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	query, err := svc.Translator.Translate(context.Background(), text)
	if err != nil {
		return err
	}
	fmt.Println(query)
	return nil
}
