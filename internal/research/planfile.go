// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-tools/pkg/types"
)

// PlanFile is the on-disk form of a research plan. A plan can be written
// once, edited by hand and replayed with the research command.
type PlanFile struct {
	Query     string             `yaml:"query"`
	Plan      types.ResearchPlan `yaml:"plan"`
	CreatedAt time.Time          `yaml:"created_at,omitempty"`
}

// WritePlanFile saves query and plan to a YAML file.
func WritePlanFile(path, query string, plan types.ResearchPlan) error {
	pf := PlanFile{
		Query:     query,
		Plan:      plan,
		CreatedAt: time.Now().UTC(),
	}
	data, err := yaml.Marshal(&pf)
	if err != nil {
		return fmt.Errorf("marshaling plan file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadPlanFile loads a plan file from disk. A file with no sub-questions
// is rejected.
func ReadPlanFile(path string) (*PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	var pf PlanFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	pf.Plan.SubQuestions = cleanQuestions(pf.Plan.SubQuestions)
	if len(pf.Plan.SubQuestions) == 0 {
		return nil, fmt.Errorf("plan file %s has no sub-questions", path)
	}
	return &pf, nil
}
