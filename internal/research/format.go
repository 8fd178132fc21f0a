// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/research-tools/internal/search"
	"github.com/pdiddy/research-tools/pkg/types"
)

// snippetWidth bounds the content excerpts printed by the text formatters.
const snippetWidth = 300

// FormatDeepReport writes a deep research report as text.
func FormatDeepReport(r *types.DeepResearchReport, w io.Writer) {
	fmt.Fprintf(w, "Query: %s\n", r.Query)
	if r.Answer != "" {
		fmt.Fprintf(w, "\nAnswer:\n%s\n", r.Answer)
	}
	if len(r.AnalyzedResults) > 0 {
		fmt.Fprintln(w, "\nAnalyzed sources:")
		for i, a := range r.AnalyzedResults {
			fmt.Fprintf(w, "%d. %s\n   %s\n   %s\n", i+1, a.Title, a.URL, excerpt(a.Content, snippetWidth))
		}
	}
	if len(r.SearchResults) > 0 {
		fmt.Fprintln(w)
		search.FormatTable(r.SearchResults, w)
	}
	fmt.Fprintf(w, "\n%s\n", r.Message)
}

// FormatReport writes an advanced research report as text.
func FormatReport(r *types.ResearchReport, w io.Writer) {
	fmt.Fprintf(w, "Query: %s\n", r.Query)
	fmt.Fprintf(w, "Plan: %s\n", r.Plan.Rationale)
	for i, q := range r.Plan.SubQuestions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, q)
	}

	for _, f := range r.Findings {
		fmt.Fprintf(w, "\n## %s\n", f.Question)
		if f.Answer != "" {
			fmt.Fprintf(w, "%s\n", indent(strings.TrimSpace(f.Answer), "  "))
		}
		for _, s := range f.Sources {
			fmt.Fprintf(w, "  - %s (%s)\n", s.Title, s.URL)
		}
	}

	if len(r.Failures) > 0 {
		fmt.Fprintln(w, "\nFailed sub-questions:")
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  - %s: %s\n", f.Question, f.Reason)
		}
	}
	if r.AllSources != nil {
		fmt.Fprintf(w, "\nAll sources (%d):\n", len(r.AllSources))
		for _, s := range r.AllSources {
			fmt.Fprintf(w, "  - %s (%s)\n", s.Title, s.URL)
		}
	}

	fmt.Fprintf(w, "\n%s (%d queries used)\n", r.Message, r.QueriesUsed)
}

// excerpt collapses whitespace and cuts s to at most max runes.
func excerpt(s string, max int) string {
	s = collapseSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
