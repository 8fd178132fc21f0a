// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-tools/internal/metrics"
	"github.com/pdiddy/research-tools/internal/research"
	"github.com/pdiddy/research-tools/internal/store"
	"github.com/pdiddy/research-tools/internal/tools"
	"github.com/pdiddy/research-tools/pkg/types"
)

// stubResearcher answers every operation with fixed values.
type stubResearcher struct {
	fail bool
}

func (s stubResearcher) SimpleSearch(_ context.Context, req research.SearchRequest) (*types.FormattedResults, error) {
	if s.fail {
		return nil, &research.UpstreamError{Err: errors.New("HTTP 500")}
	}
	return &types.FormattedResults{Query: req.Query, Results: []types.ScoredResult{{Title: "T", URL: "https://t"}}}, nil
}

func (stubResearcher) DeepResearch(_ context.Context, req research.DeepRequest) (*types.DeepResearchReport, error) {
	return &types.DeepResearchReport{Query: req.Query, SearchResults: []types.ScoredResult{}, AnalyzedResults: []types.AnalyzedResult{}}, nil
}

func (stubResearcher) AdvancedResearch(_ context.Context, req research.AdvancedRequest) (*types.ResearchReport, error) {
	return &types.ResearchReport{Query: req.Query}, nil
}

func (stubResearcher) AnalyzeURL(_ context.Context, req research.AnalyzeRequest) (*types.URLAnalysis, error) {
	return &types.URLAnalysis{URL: req.URL, Status: "success", RawContent: "page text"}, nil
}

type fixture struct {
	srv   *httptest.Server
	store *store.Store
}

func newFixture(t *testing.T, r tools.Researcher) *fixture {
	t.Helper()
	st, err := store.Open(types.StoreConfig{DataDir: filepath.Join(t.TempDir(), "data")})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	promReg := prometheus.NewRegistry()
	registry := tools.NewRegistry(r)
	registry.Recorder = st
	registry.Metrics = metrics.New(promReg)

	s := New(Options{
		Registry:    registry,
		Gatherer:    promReg,
		History:     st,
		CORSOrigins: []string{"http://localhost:3000"},
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, store: st}
}

func (f *fixture) post(t *testing.T, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(f.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(f.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealth(t *testing.T) {
	f := newFixture(t, stubResearcher{})
	resp, body := f.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestListTools(t *testing.T) {
	f := newFixture(t, stubResearcher{})
	resp, body := f.get(t, "/tools")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var defs []tools.Definition
	require.NoError(t, json.Unmarshal(body, &defs))
	require.Len(t, defs, 4)
	assert.Equal(t, tools.AdvancedDeepResearch, defs[0].Name)
}

func TestCallTool(t *testing.T) {
	f := newFixture(t, stubResearcher{})
	resp, body := f.post(t, "/tools/performSearch", `{"query":"solar"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var res struct {
		ID     string                 `json:"id"`
		Tool   string                 `json:"tool"`
		Status string                 `json:"status"`
		Output types.FormattedResults `json:"output"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "performSearch", res.Tool)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "solar", res.Output.Query)
	assert.NotEmpty(t, res.ID)

	call, err := f.store.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"solar"}`, string(call.Arguments))
}

func TestCallToolErrorIsOK(t *testing.T) {
	f := newFixture(t, stubResearcher{fail: true})
	resp, body := f.post(t, "/tools/performSearch", `{"query":"solar"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res struct {
		Status string            `json:"status"`
		Output types.ErrorResult `json:"output"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "error", res.Status)
	assert.Equal(t, "Failed to perform search", res.Output.Error)
	assert.Contains(t, res.Output.Details, "HTTP 500")
}

func TestCallToolRejects(t *testing.T) {
	f := newFixture(t, stubResearcher{})
	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown tool", "/tools/getWeather", `{}`, http.StatusNotFound},
		{"invalid json", "/tools/performSearch", `{"query":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.post(t, tt.path, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
			var er types.ErrorResult
			require.NoError(t, json.Unmarshal(body, &er))
			assert.Equal(t, "error", er.Status)
		})
	}

	n, err := f.store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "rejected requests must not be recorded")
}

func TestCallToolRedact(t *testing.T) {
	f := newFixture(t, stubResearcher{})

	_, body := f.post(t, "/tools/analyzeURL", `{"url":"https://example.com"}`)
	assert.Contains(t, string(body), `"_rawContent":"page text"`)

	_, body = f.post(t, "/tools/analyzeURL?redact=true", `{"url":"https://example.com"}`)
	assert.NotContains(t, string(body), "page text")
}

func TestCalls(t *testing.T) {
	f := newFixture(t, stubResearcher{})
	for i := 0; i < 3; i++ {
		f.post(t, "/tools/performSearch", fmt.Sprintf(`{"query":"q%d"}`, i))
	}
	f.post(t, "/tools/analyzeURL", `{"url":"https://example.com"}`)

	resp, body := f.get(t, "/calls?tool=performSearch&limit=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var calls []types.ToolCall
	require.NoError(t, json.Unmarshal(body, &calls))
	require.Len(t, calls, 2)
	assert.JSONEq(t, `{"query":"q2"}`, string(calls[0].Arguments))

	resp, body = f.get(t, "/calls/"+calls[0].ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var call types.ToolCall
	require.NoError(t, json.Unmarshal(body, &call))
	assert.Equal(t, calls[0].ID, call.ID)

	resp, _ = f.get(t, "/calls/does-not-exist")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.get(t, "/calls?limit=zero")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCallsEmpty(t *testing.T) {
	f := newFixture(t, stubResearcher{})
	resp, body := f.get(t, "/calls")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestCallsDisabledWithoutHistory(t *testing.T) {
	s := New(Options{Registry: tools.NewRegistry(stubResearcher{})})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/calls")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t, stubResearcher{})
	f.post(t, "/tools/performSearch", `{"query":"solar"}`)

	resp, body := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `research_tools_tool_calls_total{status="success",tool="performSearch"} 1`)
}

func TestCORS(t *testing.T) {
	f := newFixture(t, stubResearcher{})
	req, err := http.NewRequest(http.MethodOptions, f.srv.URL+"/tools/performSearch", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
