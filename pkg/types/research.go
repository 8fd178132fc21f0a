// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResearchPlan is the ordered list of sub-questions an advanced research
// run searches for. The calling model usually supplies it; otherwise it is
// derived from a preliminary provider answer.
type ResearchPlan struct {
	SubQuestions []string `json:"subQuestions" yaml:"sub_questions"`
	Rationale    string   `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}

// Source is a search result as presented inside a research report.
// FullContent is only populated in AllSources when the detail flag is set.
type Source struct {
	Title       string  `json:"title" yaml:"title"`
	URL         string  `json:"url" yaml:"url"`
	Content     string  `json:"content" yaml:"content"`
	FullContent *string `json:"fullContent,omitempty" yaml:"full_content,omitempty"`
}

// Finding is the aggregated answer and top sources for one sub-question.
type Finding struct {
	Question string   `json:"question" yaml:"question"`
	Answer   string   `json:"answer,omitempty" yaml:"answer,omitempty"`
	Sources  []Source `json:"sources" yaml:"sources"`
}

// FailedQuery records a sub-question whose search failed.
type FailedQuery struct {
	Question string `json:"question" yaml:"question"`
	Reason   string `json:"reason" yaml:"reason"`
}

// ResearchReport is the result of an advanced research run.
type ResearchReport struct {
	Query    string       `json:"query" yaml:"query"`
	Plan     ResearchPlan `json:"plan" yaml:"plan"`
	Findings []Finding    `json:"findings" yaml:"findings"`

	// AllSources is nil unless the caller asked for details.
	AllSources []Source `json:"allSources,omitempty" yaml:"all_sources,omitempty"`

	// QueriesUsed counts every provider call attempted, including the
	// fallback planning call.
	QueriesUsed int    `json:"queriesUsed" yaml:"queries_used"`
	Message     string `json:"message" yaml:"message"`

	// Failures is nil unless the caller asked for failures to be reported.
	Failures []FailedQuery `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// AnalyzedResult is one result examined by a deep research run.
type AnalyzedResult struct {
	Title   string   `json:"title" yaml:"title"`
	URL     string   `json:"url" yaml:"url"`
	Content string   `json:"content" yaml:"content"`
	Score   *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// DeepResearchReport is the result of a single-call deep research run.
type DeepResearchReport struct {
	Query           string           `json:"query" yaml:"query"`
	Answer          string           `json:"answer,omitempty" yaml:"answer,omitempty"`
	SearchResults   []ScoredResult   `json:"searchResults" yaml:"search_results"`
	AnalyzedResults []AnalyzedResult `json:"analyzedResults" yaml:"analyzed_results"`
	Message         string           `json:"message" yaml:"message"`
}

// URLAnalysis is the result of fetching a page for the model to analyze.
// RawContent is meant for the model only and is stripped before the result
// is shown to a user.
type URLAnalysis struct {
	URL        string `json:"url" yaml:"url"`
	Status     string `json:"status" yaml:"status"`
	RawContent string `json:"_rawContent,omitempty" yaml:"raw_content,omitempty"`
}

// Redacted returns a copy without the raw page content.
func (a URLAnalysis) Redacted() URLAnalysis {
	a.RawContent = ""
	return a
}

// StatusError is the status value of every ErrorResult.
const StatusError = "error"

// ErrorResult is the structured value tools return instead of failing, so
// the calling model always receives something it can narrate.
type ErrorResult struct {
	Error   string `json:"error" yaml:"error"`
	Status  string `json:"status" yaml:"status"`
	Details string `json:"details" yaml:"details"`
}
