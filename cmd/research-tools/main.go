// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-tools CLI. It runs the
// research tools from the command line, serves them over HTTP for a chat
// backend and browses the recorded tool calls.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-tools/internal/secrets"
	"github.com/pdiddy/research-tools/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// secretDefault returns fallback if it is set, or the secret stored under
// key otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets[key]
}

// rootCmd is the base command for the research-tools CLI.
var rootCmd = &cobra.Command{
	Use:   "research-tools",
	Short: "Web research tools for language model chat sessions",
	Long: `research-tools implements the research tools a language model calls during
a chat turn: a web search, a single-call deep research pass, a multi-step
research run over a plan of sub-questions, and URL content analysis.

Run a tool directly with search, deep, research or analyze; invoke any tool
with a JSON argument object through call; or expose all of them to a chat
backend with serve. Every invocation is recorded in a local SQLite store that
history lists and exports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-tools.yaml or ~/.config/research-tools/research-tools.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of API key files")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the tool-call database and exports (default: data)")
	rootCmd.PersistentFlags().Bool("no-record", false, "do not record tool calls")
	rootCmd.PersistentFlags().String("fetch-mode", "", "page fetcher: proxy or direct")

	viper.BindPFlag("store.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("store.disabled", rootCmd.PersistentFlags().Lookup("no-record"))
	viper.BindPFlag("fetch.mode", rootCmd.PersistentFlags().Lookup("fetch-mode"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-tools")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-tools"))
		}
	}

	setDefaults(types.DefaultConfig())

	viper.SetEnvPrefix("RESEARCH_TOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment variables reach
// viper.Unmarshal.
func setDefaults(d types.Config) {
	viper.SetDefault("http.timeout", d.HTTP.Timeout)
	viper.SetDefault("http.user_agent", d.HTTP.UserAgent)
	viper.SetDefault("search.endpoint", d.Search.Endpoint)
	viper.SetDefault("search.api_key", "")
	viper.SetDefault("search.max_results_cap", d.Search.MaxResultsCap)
	viper.SetDefault("search.max_retries", d.Search.MaxRetries)
	viper.SetDefault("search.inter_query_delay", d.Search.InterQueryDelay)
	viper.SetDefault("research.max_searches", d.Research.MaxSearches)
	viper.SetDefault("research.deep_results", d.Research.DeepResults)
	viper.SetDefault("research.search_results", d.Research.SearchResults)
	viper.SetDefault("fetch.mode", string(d.Fetch.Mode))
	viper.SetDefault("fetch.proxy_base", d.Fetch.ProxyBase)
	viper.SetDefault("fetch.max_chars", d.Fetch.MaxChars)
	viper.SetDefault("fetch.api_key", "")
	viper.SetDefault("store.data_dir", d.Store.DataDir)
	viper.SetDefault("store.disabled", d.Store.Disabled)
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.cors_origins", d.Server.CORSOrigins)
}

// loadConfig decodes the merged viper settings over the defaults and
// resolves API keys from the secrets directory.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Normalize()
	cfg.Fetch.APIKey = secretDefault(secrets.ProxyAPIKey, cfg.Fetch.APIKey)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
