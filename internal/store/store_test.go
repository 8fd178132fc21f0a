// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-tools/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{DataDir: filepath.Join(t.TempDir(), "data")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func appendCall(t *testing.T, s *Store, tool, args, result, status string) *types.ToolCall {
	t.Helper()
	call := &types.ToolCall{
		Tool:      tool,
		Arguments: json.RawMessage(args),
		Result:    json.RawMessage(result),
		Status:    status,
	}
	require.NoError(t, s.Append(context.Background(), call))
	return call
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := Open(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
	assert.Equal(t, dir, s.DataDir())
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	s := testStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	call := appendCall(t, s, "performSearch", `{"query":"solar"}`, `{"query":"solar","results":[]}`, "success")

	_, err := uuid.Parse(call.ID)
	assert.NoError(t, err, "id should be a UUID")
	assert.Equal(t, fixed, call.CreatedAt)

	got, err := s.Get(context.Background(), call.ID)
	require.NoError(t, err)
	assert.Equal(t, "performSearch", got.Tool)
	assert.Equal(t, "success", got.Status)
	assert.JSONEq(t, `{"query":"solar"}`, string(got.Arguments))
	assert.JSONEq(t, `{"query":"solar","results":[]}`, string(got.Result))
	assert.True(t, fixed.Equal(got.CreatedAt))
}

func TestAppendRejectsMissingTool(t *testing.T) {
	s := testStore(t)
	err := s.Append(context.Background(), &types.ToolCall{})
	assert.Error(t, err)
}

func TestAppendDuplicateID(t *testing.T) {
	s := testStore(t)
	call := appendCall(t, s, "analyzeURL", `{}`, `{}`, "success")
	err := s.Append(context.Background(), &types.ToolCall{ID: call.ID, Tool: "analyzeURL"})
	assert.Error(t, err, "records are append only")
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)
	first := appendCall(t, s, "performSearch", `{"query":"a"}`, `{}`, "success")
	second := appendCall(t, s, "analyzeURL", `{"url":"https://b"}`, `{}`, "error")
	third := appendCall(t, s, "performSearch", `{"query":"c"}`, `{}`, "success")

	calls, err := s.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, calls, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{calls[0].ID, calls[1].ID, calls[2].ID})
}

func TestListFilters(t *testing.T) {
	s := testStore(t)
	appendCall(t, s, "performSearch", `{"query":"solar power"}`, `{}`, "success")
	appendCall(t, s, "performSearch", `{"query":"wind"}`, `{}`, "error")
	appendCall(t, s, "analyzeURL", `{"url":"https://solar.example"}`, `{}`, "success")

	tests := []struct {
		name string
		opts ListOptions
		want int
	}{
		{"all", ListOptions{}, 3},
		{"by tool", ListOptions{Tool: "performSearch"}, 2},
		{"by status", ListOptions{Status: "error"}, 1},
		{"by argument text", ListOptions{Contains: "solar"}, 2},
		{"combined", ListOptions{Tool: "performSearch", Contains: "solar"}, 1},
		{"limit", ListOptions{Limit: 2}, 2},
		{"unlimited", ListOptions{Limit: -1}, 3},
		{"no match", ListOptions{Tool: "getWeather"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, err := s.List(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Len(t, calls, tt.want)
		})
	}
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound), "err = %v", err)
}

func TestCount(t *testing.T) {
	s := testStore(t)
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	appendCall(t, s, "performSearch", `{}`, `{}`, "success")
	appendCall(t, s, "performSearch", `{}`, `{}`, "success")
	n, err = s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReopenKeepsRecords(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	call := appendCall(t, s, "performSearch", `{}`, `{}`, "success")
	require.NoError(t, s.Close())

	s, err = Open(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(context.Background(), call.ID)
	require.NoError(t, err)
	assert.Equal(t, call.ID, got.ID)
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	appendCall(t, s, "performSearch", `{"query":"solar"}`, `{"query":"solar","results":[{"title":"T"}]}`, "success")
	appendCall(t, s, "analyzeURL", `{"url":"https://x"}`, `{"error":"Failed to analyze URL","status":"error","details":"HTTP 404"}`, "error")

	path, err := s.ExportYAML(context.Background(), ListOptions{Tool: "performSearch"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.DataDir(), "export.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "performSearch", entries[0]["tool"])
	args, ok := entries[0]["arguments"].(map[string]any)
	require.True(t, ok, "arguments should be decoded, got %T", entries[0]["arguments"])
	assert.Equal(t, "solar", args["query"])
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	for i := 0; i < defaultLimit+5; i++ {
		appendCall(t, s, "performSearch", `{"query":"q"}`, `{}`, "success")
	}

	path, err := s.ExportJSON(context.Background(), ListOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []ExportEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, defaultLimit+5, "export should not apply the list default limit")
}

func TestDecodeRaw(t *testing.T) {
	assert.Equal(t, map[string]any{"a": float64(1)}, decodeRaw(json.RawMessage(`{"a":1}`)))
	assert.Equal(t, "not json", decodeRaw(json.RawMessage(`not json`)))
}
