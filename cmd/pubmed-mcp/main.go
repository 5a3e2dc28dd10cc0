// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-mcp CLI. The serve command
// runs the MCP server over stdio; the remaining commands expose the same
// retrieval operations and the local article library from the shell.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-mcp/internal/logging"
	"github.com/pdiddy/pubmed-mcp/internal/retrieval"
	"github.com/pdiddy/pubmed-mcp/internal/search"
	"github.com/pdiddy/pubmed-mcp/internal/secrets"
	"github.com/pdiddy/pubmed-mcp/internal/translate"
	"github.com/pdiddy/pubmed-mcp/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the merged configuration: defaults, config file, environment,
	// then .secrets/ for credentials left empty.
	cfg types.Config

	// logger writes to stderr. It is a no-op until PersistentPreRunE runs.
	logger = zap.NewNop()
)

// rootCmd is the base command for the pubmed-mcp CLI.
var rootCmd = &cobra.Command{
	Use:   "pubmed-mcp",
	Short: "PubMed search for MCP hosts and the command line",
	Long: `pubmed-mcp searches PubMed through the NCBI E-utilities. The serve
command exposes search, natural-language search, and article lookup as MCP
tools over stdio; search, ask, translate, and fetch run the same operations
from the shell. The library command keeps retrieved articles in a local
SQLite database for offline querying and export.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("decoding configuration: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}

		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			logger.Debug("loaded secrets", zap.Strings("keys", s.Names()))
		}
		cfg.PubMed.APIKey = s.Or(secrets.NCBIAPIKey, cfg.PubMed.APIKey)
		cfg.Translator.APIKey = s.Or(secrets.LLMAPIKey, cfg.Translator.APIKey)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubmed-mcp.yaml or ~/.config/pubmed-mcp/pubmed-mcp.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of API key files (ncbi-api-key, llm-api-key)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

// configDefaults are registered with viper so that every key can also be
// supplied through PUBMED_MCP_* environment variables.
var configDefaults = map[string]any{
	"pubmed.base_url":       "",
	"pubmed.api_key":        "",
	"pubmed.tool":           "pubmed-mcp",
	"pubmed.email":          "",
	"pubmed.max_retries":    0,
	"pubmed.timeout":        "0s",
	"pubmed.user_agent":     "pubmed-mcp/" + version,
	"translator.endpoint":   translate.DefaultEndpoint,
	"translator.model":      translate.DefaultModel,
	"translator.api_key":    "",
	"translator.timeout":    "60s",
	"translator.user_agent": "pubmed-mcp/" + version,
	"library.dir":           "library",
	"library.max_results":   20,
	"log.level":             "info",
	"log.development":       false,
}

func initConfig() {
	for k, v := range configDefaults {
		viper.SetDefault(k, v)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubmed-mcp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubmed-mcp"))
		}
	}

	viper.SetEnvPrefix("PUBMED_MCP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Reading config file:", err)
		}
	}
}

// newService wires the PubMed client and the translator into a retrieval
// facade using the loaded configuration.
func newService() (*retrieval.Service, error) {
	client := search.NewPubMedClient(cfg.PubMed, logger)

	tcfg, err := translate.ApplyEnv(cfg.Translator)
	if err != nil {
		return nil, err
	}
	translator := translate.New(translate.NewChatCompletionBackend(tcfg), logger)

	return retrieval.NewService(client, translator, logger), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
