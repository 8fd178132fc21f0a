// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-tools/internal/research"
	"github.com/pdiddy/research-tools/internal/tools"
	"github.com/pdiddy/research-tools/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Run multi-step research over a plan of sub-questions",
	Long: `Research runs the advancedDeepResearch tool. Each sub-question is searched
in order and the answers and top sources are collected into a report.

Sub-questions come from repeated --question flags or a YAML plan file
(--plan-file). Without either, a plan is derived from a preliminary search
answer. --save-plan writes the plan that was used so it can be edited and
replayed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		planFile, _ := cmd.Flags().GetString("plan-file")
		questions, _ := cmd.Flags().GetStringArray("question")
		rationale, _ := cmd.Flags().GetString("rationale")
		maxSearches, _ := cmd.Flags().GetInt("max-searches")
		details, _ := cmd.Flags().GetBool("details")
		reportFailures, _ := cmd.Flags().GetBool("report-failures")
		savePlan, _ := cmd.Flags().GetString("save-plan")

		query, plan, err := buildPlan(strings.Join(args, " "), planFile, questions, rationale)
		if err != nil {
			return err
		}

		a, err := newApp(nil, os.Stderr)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.runTool(cmd.Context(), tools.AdvancedDeepResearch, research.AdvancedRequest{
			Query:          query,
			Plan:           plan,
			MaxSearches:    research.Count(maxSearches),
			IncludeDetails: details,
			ReportFailures: reportFailures,
		})
		if err != nil {
			return err
		}
		report := res.Output.(*types.ResearchReport)

		if savePlan != "" {
			if err := research.WritePlanFile(savePlan, query, report.Plan); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Plan written to %s\n", savePlan)
		}

		return writeOutput(os.Stdout, format, report, func(w io.Writer) {
			research.FormatReport(report, w)
		})
	},
}

// buildPlan assembles the caller plan from a plan file, --question flags
// and --rationale. The plan is nil when none of them is given. A rationale
// without sub-questions is kept and applied to the derived plan.
func buildPlan(query, planFile string, questions []string, rationale string) (string, *types.ResearchPlan, error) {
	query = strings.TrimSpace(query)
	var plan *types.ResearchPlan
	if planFile != "" {
		pf, err := research.ReadPlanFile(planFile)
		if err != nil {
			return "", nil, err
		}
		plan = &pf.Plan
		if query == "" {
			query = pf.Query
		}
	}
	if len(questions) > 0 || rationale != "" {
		if plan == nil {
			plan = &types.ResearchPlan{}
		}
		plan.SubQuestions = append(plan.SubQuestions, questions...)
	}
	if rationale != "" {
		plan.Rationale = rationale
	}
	if query == "" {
		return "", nil, fmt.Errorf("provide a query as an argument or in the plan file")
	}
	return query, plan, nil
}

func init() {
	researchCmd.Flags().String("plan-file", "", "YAML plan file with query and sub-questions")
	researchCmd.Flags().StringArray("question", nil, "sub-question to search (repeatable)")
	researchCmd.Flags().String("rationale", "", "explanation of the research approach")
	researchCmd.Flags().Int("max-searches", 0, "maximum sub-questions to search (default from config)")
	researchCmd.Flags().Bool("details", false, "include every source with its full content")
	researchCmd.Flags().Bool("report-failures", false, "list sub-questions whose search failed")
	researchCmd.Flags().String("save-plan", "", "write the plan used to this YAML file")
	researchCmd.Flags().String("format", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(researchCmd)
}
