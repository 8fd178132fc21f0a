// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdiddy/research-tools/internal/httputil"
	"github.com/pdiddy/research-tools/pkg/types"
)

// TavilyProvider queries a Tavily-compatible search endpoint with
// bearer-token auth.
type TavilyProvider struct {
	Client *http.Client

	// Endpoint defaults to types.DefaultSearchEndpoint.
	Endpoint string

	// Token is consulted on every call so a credential added after
	// start-up is picked up.
	Token func() string

	UserAgent  string
	MaxRetries int
}

// Name returns the provider identifier.
func (p *TavilyProvider) Name() string { return "tavily" }

// CheckCredential returns ErrNoCredential when no token is available.
func (p *TavilyProvider) CheckCredential() error {
	if p.token() == "" {
		return ErrNoCredential
	}
	return nil
}

func (p *TavilyProvider) token() string {
	if p.Token == nil {
		return ""
	}
	return strings.TrimSpace(p.Token())
}

// Search sends q to the provider and decodes the ranked results.
func (p *TavilyProvider) Search(ctx context.Context, q types.SearchQuery) (*types.SearchResponse, error) {
	token := p.token()
	if token == "" {
		return nil, ErrNoCredential
	}
	if err := Validate(q); err != nil {
		return nil, err
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = types.DefaultSearchEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, p.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp, "search provider"); err != nil {
		return nil, err
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	out := &types.SearchResponse{
		Query:        q.Text,
		Answer:       strings.TrimSpace(tr.Answer),
		Results:      make([]types.SearchResult, 0, len(tr.Results)),
		ResponseTime: tr.ResponseTime.value(),
	}
	for _, r := range tr.Results {
		out.Results = append(out.Results, types.SearchResult{
			Title:      r.Title,
			URL:        r.URL,
			Content:    r.Content,
			RawContent: r.RawContent,
			Score:      r.Score,
		})
	}
	return out, nil
}

// Tavily API JSON structures.
type tavilyResponse struct {
	Query        string         `json:"query"`
	Answer       string         `json:"answer"`
	Results      []tavilyResult `json:"results"`
	ResponseTime flexFloat      `json:"response_time"`
}

type tavilyResult struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Content    string   `json:"content"`
	RawContent string   `json:"raw_content"`
	Score      *float64 `json:"score"`
}

// flexFloat accepts a JSON number or a numeric string; the provider has
// reported response_time both ways.
type flexFloat struct {
	v  float64
	ok bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("response_time %s: %w", data, err)
	}
	f.v, f.ok = v, true
	return nil
}

func (f flexFloat) value() *float64 {
	if !f.ok {
		return nil
	}
	v := f.v
	return &v
}
