// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-tools/internal/research"
	"github.com/pdiddy/research-tools/internal/search"
	"github.com/pdiddy/research-tools/internal/tools"
	"github.com/pdiddy/research-tools/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the web for a query",
	Long: `Search runs the performSearch tool: one basic web search returning the top
results with title, URL, content snippet and relevance score.`,
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
		category, _ := cmd.Flags().GetString("category")

		a, err := newApp(nil, os.Stderr)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.runTool(cmd.Context(), tools.PerformSearch, research.SearchRequest{
			Query:      query,
			NumResults: research.Count(n),
			Category:   category,
		})
		if err != nil {
			return err
		}
		out := res.Output.(*types.FormattedResults)
		return writeOutput(os.Stdout, format, out, func(w io.Writer) {
			search.FormatTable(out.Results, w)
		})
	},
}

func init() {
	searchCmd.Flags().Int("num-results", 0, "number of results to return (default from config)")
	searchCmd.Flags().String("category", "", "provider topic, e.g. news (default general)")
	searchCmd.Flags().String("format", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(searchCmd)
}
