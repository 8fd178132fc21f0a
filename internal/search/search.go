// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search talks to the hosted search provider that backs every
// research tool: keyword in, ranked documents (and optionally a synthesized
// answer) out.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/research-tools/pkg/types"
)

// ErrNoCredential is returned when no provider token is configured at the
// time of a call.
var ErrNoCredential = errors.New("search provider API token not configured")

// Provider issues a single search call. Implementations must not retain
// the query after returning.
type Provider interface {
	Name() string
	Search(ctx context.Context, q types.SearchQuery) (*types.SearchResponse, error)
}

// CredentialChecker is implemented by providers that can report a missing
// credential without making a request.
type CredentialChecker interface {
	CheckCredential() error
}

// Validate reports whether q is well-formed enough to send.
func Validate(q types.SearchQuery) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("query is empty")
	}
	if !q.Depth.Valid() {
		return fmt.Errorf("invalid search depth %q: must be basic or advanced", q.Depth)
	}
	if q.MaxResults < 1 {
		return fmt.Errorf("max results must be at least 1, got %d", q.MaxResults)
	}
	return nil
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(results []types.ScoredResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-6s  %s\n", "Rank", "Title", "Score", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range results {
		score := ""
		if r.Score != nil {
			score = fmt.Sprintf("%.2f", *r.Score)
		}
		fmt.Fprintf(w, "%-4d  %-50s  %-6s  %s\n", i+1, truncate(r.Title, 50), score, r.URL)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
