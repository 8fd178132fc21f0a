// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research tools:
// search queries and results exchanged with the search provider, the
// research plan and report returned to the calling model, tool-call records
// and configuration.
package types

// SearchDepth selects how thoroughly the search provider processes a query.
type SearchDepth string

const (
	DepthBasic    SearchDepth = "basic"
	DepthAdvanced SearchDepth = "advanced"
)

// Valid reports whether d is a depth the provider accepts.
func (d SearchDepth) Valid() bool {
	return d == DepthBasic || d == DepthAdvanced
}

// SearchQuery is a single request to the search provider. One is built per
// sub-question and discarded after the call.
type SearchQuery struct {
	// Text is the keyword or natural-language query.
	Text string `json:"query" yaml:"query"`

	// Depth is basic or advanced.
	Depth SearchDepth `json:"search_depth" yaml:"search_depth"`

	// MaxResults is the number of results requested from the provider.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Topic is a free-form category hint passed through to the provider.
	Topic string `json:"topic,omitempty" yaml:"topic,omitempty"`

	// IncludeAnswer asks the provider for a synthesized answer.
	IncludeAnswer bool `json:"include_answer" yaml:"include_answer"`

	// IncludeRawContent asks the provider for the extracted page text.
	IncludeRawContent bool `json:"include_raw_content" yaml:"include_raw_content"`
}

// SearchResult is one ranked document returned by the search provider.
type SearchResult struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`

	// Content is the short snippet chosen by the provider.
	Content string `json:"content" yaml:"content"`

	// RawContent is the full extracted page text, present only when
	// requested and available.
	RawContent string `json:"raw_content,omitempty" yaml:"raw_content,omitempty"`

	// Score is the provider relevance score, nil when not reported.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// SearchResponse is the decoded provider response for one SearchQuery.
type SearchResponse struct {
	Query        string         `json:"query" yaml:"query"`
	Answer       string         `json:"answer,omitempty" yaml:"answer,omitempty"`
	Results      []SearchResult `json:"results" yaml:"results"`
	ResponseTime *float64       `json:"response_time,omitempty" yaml:"response_time,omitempty"`
}

// ScoredResult is the shape performSearch returns for each result.
type ScoredResult struct {
	Title   string   `json:"title" yaml:"title"`
	URL     string   `json:"url" yaml:"url"`
	Content string   `json:"content" yaml:"content"`
	Score   *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// FormattedResults is the output of a simple search.
type FormattedResults struct {
	Query        string         `json:"query" yaml:"query"`
	Results      []ScoredResult `json:"results" yaml:"results"`
	ResponseTime *float64       `json:"responseTime,omitempty" yaml:"response_time,omitempty"`
}
