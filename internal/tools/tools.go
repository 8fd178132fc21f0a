// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools declares the research operations as callable tools for a
// language model. Each tool has a named parameter schema, takes a JSON
// argument object and always returns a JSON-serializable result; failures
// come back as an error result, never as a Go error.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/research-tools/internal/metrics"
	"github.com/pdiddy/research-tools/internal/research"
	"github.com/pdiddy/research-tools/pkg/types"
)

// Tool names as seen by the model.
const (
	PerformSearch        = "performSearch"
	SimpleDeepResearch   = "simpleDeepResearch"
	AdvancedDeepResearch = "advancedDeepResearch"
	AnalyzeURL           = "analyzeURL"
)

// Result status values.
const (
	StatusSuccess = "success"
	StatusError   = types.StatusError
)

// Researcher is the set of operations the registry dispatches to.
// *research.Orchestrator implements it.
type Researcher interface {
	SimpleSearch(ctx context.Context, req research.SearchRequest) (*types.FormattedResults, error)
	DeepResearch(ctx context.Context, req research.DeepRequest) (*types.DeepResearchReport, error)
	AdvancedResearch(ctx context.Context, req research.AdvancedRequest) (*types.ResearchReport, error)
	AnalyzeURL(ctx context.Context, req research.AnalyzeRequest) (*types.URLAnalysis, error)
}

// Recorder persists tool calls. *store.Store implements it.
type Recorder interface {
	Append(ctx context.Context, call *types.ToolCall) error
}

// Schema is a JSON schema fragment describing tool parameters.
type Schema struct {
	Type        string            `json:"type" yaml:"type"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *Schema           `json:"items,omitempty" yaml:"items,omitempty"`
	Required    []string          `json:"required,omitempty" yaml:"required,omitempty"`
	Enum        []string          `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// Definition declares one tool to the model.
type Definition struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Parameters  Schema `json:"parameters" yaml:"parameters"`
}

// Result is the outcome of one tool call. Output is the operation's result
// value or a types.ErrorResult.
type Result struct {
	ID     string `json:"id,omitempty"`
	Tool   string `json:"tool"`
	Status string `json:"status"`
	Output any    `json:"output"`
}

// Redacted returns the result with model-only page content removed.
func (r Result) Redacted() Result {
	if a, ok := r.Output.(*types.URLAnalysis); ok && a != nil {
		red := a.Redacted()
		r.Output = &red
	}
	return r
}

type handler func(ctx context.Context, args json.RawMessage) (any, error)

type tool struct {
	def     Definition
	failure string
	run     handler
}

// Registry maps tool names to research operations.
type Registry struct {
	tools map[string]tool

	// Recorder, when set, receives every call after it completes.
	Recorder Recorder

	Metrics *metrics.Metrics

	// Log receives warnings; nil discards them.
	Log io.Writer
}

// NewRegistry registers the four research tools backed by r.
func NewRegistry(r Researcher) *Registry {
	reg := &Registry{tools: make(map[string]tool)}

	reg.register(tool{
		def: Definition{
			Name:        PerformSearch,
			Description: "Search the web for information using Tavily",
			Parameters: object([]string{"query"}, map[string]Schema{
				"query":      {Type: "string", Description: "The search query"},
				"numResults": {Type: "integer", Description: "Number of results to return (default: 5)"},
				"category":   {Type: "string", Description: "Optional category for search (general, tech, finance, etc.)"},
			}),
		},
		failure: "Failed to perform search",
		run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req research.SearchRequest
			if err := decodeArgs(args, &req); err != nil {
				return nil, err
			}
			return r.SimpleSearch(ctx, req)
		},
	})

	reg.register(tool{
		def: Definition{
			Name:        SimpleDeepResearch,
			Description: "Perform deep research by searching and analyzing top results",
			Parameters: object([]string{"query"}, map[string]Schema{
				"query":      {Type: "string", Description: "The research query"},
				"numResults": {Type: "integer", Description: "Number of results to analyze (default: 3)"},
				"depth": {
					Type:        "string",
					Description: "Depth of search (default: advanced)",
					Enum:        []string{string(types.DepthBasic), string(types.DepthAdvanced)},
				},
			}),
		},
		failure: "Failed to perform research",
		run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req research.DeepRequest
			if err := decodeArgs(args, &req); err != nil {
				return nil, err
			}
			return r.DeepResearch(ctx, req)
		},
	})

	reg.register(tool{
		def: Definition{
			Name:        AdvancedDeepResearch,
			Description: "Perform multi-step deep research by executing multiple searches based on your research plan and synthesizing findings",
			Parameters: object([]string{"query"}, map[string]Schema{
				"query": {Type: "string", Description: "The main research question"},
				"researchPlan": {
					Type:        "object",
					Description: "Your research plan with targeted sub-questions",
					Properties: map[string]Schema{
						"subQuestions": {
							Type:        "array",
							Description: "List of specific sub-questions to search for (3-5 recommended)",
							Items:       &Schema{Type: "string"},
						},
						"rationale": {Type: "string", Description: "Optional explanation of the research approach"},
					},
					Required: []string{"subQuestions"},
				},
				"maxSearches":    {Type: "integer", Description: "Maximum number of search queries to perform (default: 5)"},
				"includeDetails": {Type: "boolean", Description: "Whether to include detailed research process in output (default: false)"},
				"reportFailures": {Type: "boolean", Description: "Whether to list sub-questions whose search failed (default: false)"},
			}),
		},
		failure: "Failed to perform advanced research",
		run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req research.AdvancedRequest
			if err := decodeArgs(args, &req); err != nil {
				return nil, err
			}
			return r.AdvancedResearch(ctx, req)
		},
	})

	reg.register(tool{
		def: Definition{
			Name:        AnalyzeURL,
			Description: "Analyze the content of a webpage URL(s) and provide insights",
			Parameters: object([]string{"url"}, map[string]Schema{
				"url": {Type: "string", Description: "The URL(s) to analyze"},
			}),
		},
		failure: "Failed to analyze URL",
		run: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req research.AnalyzeRequest
			if err := decodeArgs(args, &req); err != nil {
				return nil, err
			}
			return r.AnalyzeURL(ctx, req)
		},
	})

	return reg
}

func (reg *Registry) register(t tool) {
	reg.tools[t.def.Name] = t
}

// Has reports whether a tool named name is registered.
func (reg *Registry) Has(name string) bool {
	_, ok := reg.tools[name]
	return ok
}

// Definitions returns the tool declarations sorted by name.
func (reg *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(reg.tools))
	for _, t := range reg.tools {
		defs = append(defs, t.def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Call runs the named tool with a JSON argument object. It never fails:
// an unknown tool, malformed arguments or an operation error all produce
// a Result whose Output is a types.ErrorResult.
func (reg *Registry) Call(ctx context.Context, name string, args json.RawMessage) Result {
	start := time.Now()
	res := Result{Tool: name, Status: StatusSuccess}

	t, ok := reg.tools[name]
	if !ok {
		res.Status = StatusError
		res.Output = research.ToErrorResult("Unknown tool", fmt.Errorf("no tool named %q", name))
	} else if out, err := t.run(ctx, args); err != nil {
		res.Status = StatusError
		res.Output = research.ToErrorResult(t.failure, err)
	} else {
		res.Output = out
	}

	label := name
	if !ok {
		label = "unknown"
	}
	reg.Metrics.ObserveTool(label, res.Status, start)
	reg.record(ctx, &res, args)
	return res
}

// record appends the call to the Recorder and sets res.ID. A storage
// failure is logged and does not change the result.
func (reg *Registry) record(ctx context.Context, res *Result, args json.RawMessage) {
	if reg.Recorder == nil {
		return
	}
	output, err := json.Marshal(res.Output)
	if err != nil {
		reg.warnf("encoding %s result: %v", res.Tool, err)
		return
	}
	call := &types.ToolCall{
		Tool:      res.Tool,
		Arguments: normalizeArgs(args),
		Result:    output,
		Status:    res.Status,
	}
	if err := reg.Recorder.Append(ctx, call); err != nil {
		reg.warnf("recording %s call: %v", res.Tool, err)
		return
	}
	res.ID = call.ID
}

func (reg *Registry) warnf(format string, args ...any) {
	if reg.Log == nil {
		return
	}
	fmt.Fprintf(reg.Log, "warning: "+format+"\n", args...)
}

// decodeArgs unmarshals a JSON argument object into v. Empty input is
// treated as an empty object.
func decodeArgs(args json.RawMessage, v any) error {
	if len(strings.TrimSpace(string(args))) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// normalizeArgs returns args if it is valid JSON and a JSON string holding
// it otherwise, so the stored record is always valid JSON.
func normalizeArgs(args json.RawMessage) json.RawMessage {
	if len(strings.TrimSpace(string(args))) == 0 {
		return json.RawMessage("{}")
	}
	if json.Valid(args) {
		return args
	}
	quoted, _ := json.Marshal(string(args))
	return quoted
}

func object(required []string, props map[string]Schema) Schema {
	return Schema{Type: "object", Properties: props, Required: required}
}
