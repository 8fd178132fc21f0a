// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/research-tools/pkg/types"
)

// Sub-question search settings.
const (
	subQuestionResults = 3
	maxFindingSources  = 3
)

// AdvancedRequest holds the arguments of a multi-step research run.
type AdvancedRequest struct {
	Query          string              `json:"query"`
	Plan           *types.ResearchPlan `json:"researchPlan,omitempty"`
	MaxSearches    Count               `json:"maxSearches,omitempty"`
	IncludeDetails bool                `json:"includeDetails,omitempty"`
	ReportFailures bool                `json:"reportFailures,omitempty"`
}

// Outcome is the result of searching one sub-question. Exactly one of
// Response and Err is set.
type Outcome struct {
	Question string
	Response *types.SearchResponse
	Err      error
}

// OK reports whether the search succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// AdvancedResearch resolves a plan of sub-questions, searches each one in
// order and aggregates the answers into a report. A failed sub-question is
// left out of the findings and the run continues; the run fails only when
// no sub-question succeeds.
func (o *Orchestrator) AdvancedResearch(ctx context.Context, req AdvancedRequest) (*types.ResearchReport, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if err := o.checkCredential(); err != nil {
		return nil, err
	}

	maxSearches := int(req.MaxSearches)
	if maxSearches < 1 {
		maxSearches = o.Research.MaxSearches
	}
	if maxSearches < 1 {
		maxSearches = 1
	}

	var questions []string
	var rationale string
	queriesUsed := 0
	if req.Plan != nil {
		questions = cleanQuestions(req.Plan.SubQuestions)
		rationale = strings.TrimSpace(req.Plan.Rationale)
	}
	if len(questions) == 0 {
		derived, err := o.planFromAnswer(ctx, query)
		queriesUsed++
		if err != nil {
			return nil, err
		}
		questions = derived
	}
	if len(questions) > maxSearches {
		questions = questions[:maxSearches]
	}
	if rationale == "" {
		rationale = "Research plan for: " + query
	}

	outcomes, err := o.searchSubQuestions(ctx, questions)
	queriesUsed += len(outcomes)
	if err != nil {
		return nil, err
	}

	report := buildReport(query, types.ResearchPlan{SubQuestions: questions, Rationale: rationale}, outcomes, req.IncludeDetails, req.ReportFailures)
	report.QueriesUsed = queriesUsed
	if len(report.Findings) == 0 {
		return nil, fmt.Errorf("all %d sub-question searches failed: %w", len(outcomes), lastError(outcomes))
	}
	fmt.Fprintf(o.Log, "advanced research: %d/%d sub-questions answered, %d queries used\n",
		len(report.Findings), len(outcomes), queriesUsed)
	return report, nil
}

// planFromAnswer runs the preliminary planning search and derives
// sub-questions from its answer. A provider failure falls through to the
// template questions; a missing credential or cancellation does not.
func (o *Orchestrator) planFromAnswer(ctx context.Context, query string) ([]string, error) {
	fmt.Fprintf(o.Log, "advanced research: no plan supplied, deriving sub-questions for %q\n", query)
	resp, err := o.search(ctx, types.SearchQuery{
		Text:          query,
		Depth:         types.DepthBasic,
		MaxResults:    o.clampResults(o.Research.SearchResults, o.Research.SearchResults),
		IncludeAnswer: true,
	})
	if err != nil {
		if IsConfigurationError(err) || ctx.Err() != nil {
			return nil, err
		}
		fmt.Fprintf(o.Log, "warning: planning search failed, using template questions: %v\n", err)
		return templateQuestions(query), nil
	}
	return DeriveSubQuestions(query, resp.Answer), nil
}

// searchSubQuestions searches each question in order. It stops early only
// on cancellation or a configuration error; other failures are recorded in
// the returned outcomes.
func (o *Orchestrator) searchSubQuestions(ctx context.Context, questions []string) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(questions))
	for i, q := range questions {
		if i > 0 && o.InterQueryDelay > 0 {
			select {
			case <-ctx.Done():
				return outcomes, ctx.Err()
			case <-time.After(o.InterQueryDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		fmt.Fprintf(o.Log, "  [%d/%d] %s\n", i+1, len(questions), q)
		resp, err := o.search(ctx, types.SearchQuery{
			Text:              q,
			Depth:             types.DepthAdvanced,
			MaxResults:        subQuestionResults,
			IncludeAnswer:     true,
			IncludeRawContent: true,
		})
		outcomes = append(outcomes, Outcome{Question: q, Response: resp, Err: err})
		if err == nil {
			continue
		}
		if IsConfigurationError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return outcomes, err
		}
		o.Metrics.SkipQuery()
		fmt.Fprintf(o.Log, "warning: skipping sub-question %q: %v\n", q, err)
	}
	return outcomes, nil
}

// buildReport aggregates outcomes in order. Findings come from successful
// outcomes only. AllSources is set only with details, Failures only when
// requested.
func buildReport(query string, plan types.ResearchPlan, outcomes []Outcome, details, reportFailures bool) *types.ResearchReport {
	report := &types.ResearchReport{
		Query:    query,
		Plan:     plan,
		Findings: []types.Finding{},
		Message:  fmt.Sprintf("Completed %d research queries on %q", len(outcomes), query),
	}
	if details {
		report.AllSources = []types.Source{}
	}

	for _, oc := range outcomes {
		if !oc.OK() {
			if reportFailures {
				report.Failures = append(report.Failures, types.FailedQuery{
					Question: oc.Question,
					Reason:   oc.Err.Error(),
				})
			}
			continue
		}

		top := oc.Response.Results
		if len(top) > maxFindingSources {
			top = top[:maxFindingSources]
		}
		finding := types.Finding{
			Question: oc.Question,
			Answer:   oc.Response.Answer,
			Sources:  make([]types.Source, 0, len(top)),
		}
		for _, r := range top {
			finding.Sources = append(finding.Sources, types.Source{Title: r.Title, URL: r.URL, Content: r.Content})
			if details {
				src := types.Source{Title: r.Title, URL: r.URL, Content: r.Content}
				if r.RawContent != "" {
					full := r.RawContent
					src.FullContent = &full
				}
				report.AllSources = append(report.AllSources, src)
			}
		}
		report.Findings = append(report.Findings, finding)
	}
	return report
}

func lastError(outcomes []Outcome) error {
	for i := len(outcomes) - 1; i >= 0; i-- {
		if outcomes[i].Err != nil {
			return outcomes[i].Err
		}
	}
	return errors.New("no sub-questions to search")
}
