// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is a tool call with its arguments and result decoded, so
// exports are readable as structured YAML or JSON rather than escaped
// strings.
type ExportEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Tool      string    `json:"tool" yaml:"tool"`
	Status    string    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Arguments any       `json:"arguments" yaml:"arguments"`
	Result    any       `json:"result" yaml:"result"`
}

// ExportYAML writes the selected tool calls to dataDir/export.yaml and
// returns the path written.
func (s *Store) ExportYAML(ctx context.Context, opts ListOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dataDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the selected tool calls to dataDir/export.json and
// returns the path written.
func (s *Store) ExportJSON(ctx context.Context, opts ListOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dataDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts ListOptions) ([]ExportEntry, error) {
	if opts.Limit == 0 {
		opts.Limit = -1
	}
	calls, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(calls))
	for i, c := range calls {
		entries[i] = ExportEntry{
			ID:        c.ID,
			Tool:      c.Tool,
			Status:    c.Status,
			CreatedAt: c.CreatedAt,
			Arguments: decodeRaw(c.Arguments),
			Result:    decodeRaw(c.Result),
		}
	}
	return entries, nil
}

// decodeRaw decodes stored JSON into generic values. Invalid JSON is
// returned as a string.
func decodeRaw(raw json.RawMessage) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
