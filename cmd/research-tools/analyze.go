// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-tools/internal/research"
	"github.com/pdiddy/research-tools/internal/tools"
	"github.com/pdiddy/research-tools/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Fetch the readable content of a web page",
	Long: `Analyze runs the analyzeURL tool. The page text is meant for the model and
is hidden unless --show-content is set; the full text is always recorded.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		show, _ := cmd.Flags().GetBool("show-content")

		a, err := newApp(nil, os.Stderr)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.runTool(cmd.Context(), tools.AnalyzeURL, research.AnalyzeRequest{URL: args[0]})
		if err != nil {
			return err
		}
		out := res.Output.(*types.URLAnalysis)
		if !show {
			redacted := out.Redacted()
			out = &redacted
		}
		return writeOutput(os.Stdout, format, out, func(w io.Writer) {
			fmt.Fprintf(w, "%s: %s\n", out.URL, out.Status)
			if out.RawContent != "" {
				fmt.Fprintf(w, "\n%s\n", out.RawContent)
			}
		})
	},
}

func init() {
	analyzeCmd.Flags().Bool("show-content", false, "print the extracted page text")
	analyzeCmd.Flags().String("format", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(analyzeCmd)
}
