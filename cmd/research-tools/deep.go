// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-tools/internal/research"
	"github.com/pdiddy/research-tools/internal/tools"
	"github.com/pdiddy/research-tools/pkg/types"
)

var deepCmd = &cobra.Command{
	Use:   "deep <query>",
	Short: "Run a single-call deep research pass",
	Long: `Deep runs the simpleDeepResearch tool: one search with the provider's
synthesized answer and the full extracted text of the top results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := queryArg(args)
		if err != nil {
			return err
		}
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("num-results")
		depth, _ := cmd.Flags().GetString("depth")

		a, err := newApp(nil, os.Stderr)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.runTool(cmd.Context(), tools.SimpleDeepResearch, research.DeepRequest{
			Query:      query,
			NumResults: research.Count(n),
			Depth:      types.SearchDepth(depth),
		})
		if err != nil {
			return err
		}
		out := res.Output.(*types.DeepResearchReport)
		return writeOutput(os.Stdout, format, out, func(w io.Writer) {
			research.FormatDeepReport(out, w)
		})
	},
}

func init() {
	deepCmd.Flags().Int("num-results", 0, "number of results to analyze (default from config)")
	deepCmd.Flags().String("depth", "", "search depth: basic or advanced (default advanced)")
	deepCmd.Flags().String("format", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(deepCmd)
}
