// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research implements the research tools a language model calls
// during a chat turn: a simple search, a single-call deep research pass, a
// multi-step research run over a plan of sub-questions, and URL analysis.
//
// Every operation is a single linear pass scoped to one call. Nothing is
// cached or persisted here; callers persist the returned value if they want
// to.
package research

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/research-tools/internal/fetch"
	"github.com/pdiddy/research-tools/internal/metrics"
	"github.com/pdiddy/research-tools/internal/search"
	"github.com/pdiddy/research-tools/pkg/types"
)

// Orchestrator runs the research operations against a search provider and
// a content fetcher.
type Orchestrator struct {
	Provider search.Provider
	Fetcher  fetch.Fetcher

	Research types.ResearchConfig

	// MaxResultsCap bounds caller-requested result counts.
	MaxResultsCap int

	// InterQueryDelay pauses between consecutive sub-question searches.
	InterQueryDelay time.Duration

	// Log receives progress and warning lines.
	Log io.Writer

	Metrics *metrics.Metrics
}

// New returns an Orchestrator configured from cfg. w receives progress
// output; nil discards it.
func New(provider search.Provider, fetcher fetch.Fetcher, cfg types.Config, w io.Writer) *Orchestrator {
	cfg.Normalize()
	if w == nil {
		w = io.Discard
	}
	return &Orchestrator{
		Provider:        provider,
		Fetcher:         fetcher,
		Research:        cfg.Research,
		MaxResultsCap:   cfg.Search.MaxResultsCap,
		InterQueryDelay: cfg.Search.InterQueryDelay,
		Log:             w,
	}
}

// SearchRequest holds the arguments of a simple search.
type SearchRequest struct {
	Query      string `json:"query"`
	NumResults Count  `json:"numResults,omitempty"`
	Category   string `json:"category,omitempty"`
}

// SimpleSearch issues one basic search and returns the top results in
// provider order.
func (o *Orchestrator) SimpleSearch(ctx context.Context, req SearchRequest) (*types.FormattedResults, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}
	n := o.clampResults(int(req.NumResults), o.Research.SearchResults)
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "general"
	}

	resp, err := o.search(ctx, types.SearchQuery{
		Text:       query,
		Depth:      types.DepthBasic,
		MaxResults: n,
		Topic:      category,
	})
	if err != nil {
		return nil, err
	}

	results := resp.Results
	if len(results) > n {
		results = results[:n]
	}
	out := &types.FormattedResults{
		Query:        query,
		Results:      make([]types.ScoredResult, 0, len(results)),
		ResponseTime: resp.ResponseTime,
	}
	for _, r := range results {
		out.Results = append(out.Results, scored(r))
	}
	return out, nil
}

// DeepRequest holds the arguments of a single-call deep research pass.
type DeepRequest struct {
	Query      string            `json:"query"`
	NumResults Count             `json:"numResults,omitempty"`
	Depth      types.SearchDepth `json:"depth,omitempty"`
}

// noResultsMessage is returned when a deep research search finds nothing.
const noResultsMessage = "No search results found"

// DeepResearch issues one search with the provider answer and raw content
// enabled and returns the top results with their full text. No page is
// fetched separately; content comes from the provider's own extraction.
func (o *Orchestrator) DeepResearch(ctx context.Context, req DeepRequest) (*types.DeepResearchReport, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}
	n := o.clampResults(int(req.NumResults), o.Research.DeepResults)
	depth := req.Depth
	if depth == "" {
		depth = types.DepthAdvanced
	}
	if !depth.Valid() {
		return nil, fmt.Errorf("invalid depth %q: must be basic or advanced", depth)
	}

	fmt.Fprintf(o.Log, "deep research: %q (depth %s, %d results)\n", query, depth, n)
	resp, err := o.search(ctx, types.SearchQuery{
		Text:              query,
		Depth:             depth,
		MaxResults:        o.clampResults(n*2, n),
		IncludeAnswer:     true,
		IncludeRawContent: true,
	})
	if err != nil {
		return nil, err
	}

	report := &types.DeepResearchReport{
		Query:           query,
		SearchResults:   []types.ScoredResult{},
		AnalyzedResults: []types.AnalyzedResult{},
	}
	if len(resp.Results) == 0 {
		report.Message = noResultsMessage
		return report, nil
	}

	for _, r := range resp.Results {
		report.SearchResults = append(report.SearchResults, scored(r))
	}
	top := resp.Results
	if len(top) > n {
		top = top[:n]
	}
	for _, r := range top {
		content := r.RawContent
		if content == "" {
			content = r.Content
		}
		report.AnalyzedResults = append(report.AnalyzedResults, types.AnalyzedResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: content,
			Score:   r.Score,
		})
	}
	report.Answer = resp.Answer
	report.Message = fmt.Sprintf("Research completed for: %q", query)
	return report, nil
}

// AnalyzeRequest holds the arguments of a URL analysis.
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// AnalyzeURL fetches the readable text of a page for the model. The text
// is attached as raw content which callers must not show to users.
func (o *Orchestrator) AnalyzeURL(ctx context.Context, req AnalyzeRequest) (*types.URLAnalysis, error) {
	target := strings.TrimSpace(req.URL)
	if target == "" {
		return nil, fmt.Errorf("url is empty")
	}
	if o.Fetcher == nil {
		return nil, &ConfigurationError{Err: errors.New("no content fetcher configured")}
	}

	text, err := o.Fetcher.Fetch(ctx, target)
	o.Metrics.ObserveFetch(o.Fetcher.Name(), err)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	return &types.URLAnalysis{
		URL:        target,
		Status:     "success",
		RawContent: text,
	}, nil
}

// search runs one provider call and classifies its failure.
func (o *Orchestrator) search(ctx context.Context, q types.SearchQuery) (*types.SearchResponse, error) {
	if o.Provider == nil {
		return nil, &ConfigurationError{Err: errors.New("no search provider configured")}
	}
	start := time.Now()
	resp, err := o.Provider.Search(ctx, q)
	o.Metrics.ObserveProvider(string(q.Depth), start, err)
	if err != nil {
		return nil, classify(err)
	}
	return resp, nil
}

// checkCredential fails fast when the provider can tell the credential is
// missing.
func (o *Orchestrator) checkCredential() error {
	if o.Provider == nil {
		return &ConfigurationError{Err: errors.New("no search provider configured")}
	}
	if cc, ok := o.Provider.(search.CredentialChecker); ok {
		if err := cc.CheckCredential(); err != nil {
			return &ConfigurationError{Err: err}
		}
	}
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, search.ErrNoCredential):
		return &ConfigurationError{Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &UpstreamError{Err: err}
	}
}

// clampResults applies the default for n < 1 and the configured cap.
func (o *Orchestrator) clampResults(n, def int) int {
	if n < 1 {
		n = def
	}
	if n < 1 {
		n = 1
	}
	if o.MaxResultsCap > 0 && n > o.MaxResultsCap {
		n = o.MaxResultsCap
	}
	return n
}

func scored(r types.SearchResult) types.ScoredResult {
	return types.ScoredResult{Title: r.Title, URL: r.URL, Content: r.Content, Score: r.Score}
}
