// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-tools/internal/fetch"
	"github.com/pdiddy/research-tools/internal/metrics"
	"github.com/pdiddy/research-tools/internal/research"
	"github.com/pdiddy/research-tools/internal/search"
	"github.com/pdiddy/research-tools/internal/secrets"
	"github.com/pdiddy/research-tools/internal/store"
	"github.com/pdiddy/research-tools/internal/tools"
	"github.com/pdiddy/research-tools/pkg/types"
)

// tokenEnvVar is the environment variable the chat deployment sets for the
// search provider.
const tokenEnvVar = "TAVILY_TOKEN"

// app holds the components shared by the tool commands.
type app struct {
	cfg      types.Config
	research *research.Orchestrator
	registry *tools.Registry
	store    *store.Store
}

// newApp wires the provider, fetcher, orchestrator, registry and store
// from the loaded configuration. reg may be nil when metrics are not
// exported. Call close when done.
func newApp(reg prometheus.Registerer, log io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.HTTP.Timeout}
	provider := &search.TavilyProvider{
		Client:     client,
		Endpoint:   cfg.Search.Endpoint,
		Token:      searchToken(cfg.Search.APIKey),
		UserAgent:  cfg.HTTP.UserAgent,
		MaxRetries: cfg.Search.MaxRetries,
	}
	fetcher, err := fetch.New(client, cfg.Fetch, cfg.HTTP.UserAgent)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	orch := research.New(provider, fetcher, cfg, log)
	orch.Metrics = m

	registry := tools.NewRegistry(orch)
	registry.Metrics = m
	registry.Log = log

	a := &app{cfg: cfg, research: orch, registry: registry}
	if !cfg.Store.Disabled {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return nil, err
		}
		a.store = st
		registry.Recorder = st
	}
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// searchToken resolves the search provider credential at call time: the
// TAVILY_TOKEN environment variable, then the configured key, then the
// secrets directory.
func searchToken(configured string) func() string {
	return func() string {
		if configured != "" && strings.TrimSpace(os.Getenv(tokenEnvVar)) == "" {
			return configured
		}
		return loadedSecrets.Resolve(secrets.SearchAPIKey, tokenEnvVar)
	}
}

// runTool invokes a tool through the registry with req encoded as its
// argument object. A tool-level failure is returned as an error so the
// process exits non-zero.
func (a *app) runTool(ctx context.Context, name string, req any) (tools.Result, error) {
	args, err := json.Marshal(req)
	if err != nil {
		return tools.Result{}, fmt.Errorf("encoding arguments: %w", err)
	}
	res := a.registry.Call(ctx, name, args)
	if res.Status == tools.StatusError {
		if er, ok := res.Output.(types.ErrorResult); ok {
			return res, fmt.Errorf("%s: %s", er.Error, er.Details)
		}
		return res, fmt.Errorf("%s failed", name)
	}
	return res, nil
}

// queryArg joins positional arguments into one query string.
func queryArg(args []string) (string, error) {
	q := strings.TrimSpace(strings.Join(args, " "))
	if q == "" {
		return "", fmt.Errorf("provide a query")
	}
	return q, nil
}

// outputFormat reads the --format flag: text, json or yaml.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "", "text":
		return "text", nil
	case "json", "yaml":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use text, json or yaml", format)
	}
}

// writeOutput prints v in the requested format. text renders the human
// readable form.
func writeOutput(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(w)
		return nil
	}
}
