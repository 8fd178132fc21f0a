// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-tools/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools and their parameter schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		defs := tools.NewRegistry(nil).Definitions()
		return writeOutput(os.Stdout, format, defs, func(w io.Writer) {
			for _, d := range defs {
				fmt.Fprintf(w, "%-22s %s\n", d.Name, d.Description)
			}
		})
	},
}

func init() {
	toolsCmd.Flags().String("format", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(toolsCmd)
}
