// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-tools/internal/store"
	"github.com/pdiddy/research-tools/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded tool calls",
	Long: `History lists tool calls recorded in the local database, newest first.
Use show to print one call with its arguments and result, and export to
write the matching calls to YAML or JSON in the data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory()
		if err != nil {
			return err
		}
		defer st.Close()

		opts := historyOptions(cmd)
		calls, err := st.List(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if calls == nil {
				calls = []types.ToolCall{}
			}
			return writeOutput(os.Stdout, "json", calls, nil)
		}
		if len(calls) == 0 {
			fmt.Fprintln(os.Stderr, "No tool calls recorded.")
			return nil
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTOOL\tSTATUS\tCREATED\tARGUMENTS")
		for _, c := range calls {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				c.ID, c.Tool, c.Status, c.CreatedAt.Local().Format("2006-01-02 15:04:05"), clip(string(c.Arguments), 60))
		}
		return tw.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one recorded tool call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistory()
		if err != nil {
			return err
		}
		defer st.Close()

		call, err := st.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeOutput(os.Stdout, "json", call, nil)
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded tool calls to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		st, err := openHistory()
		if err != nil {
			return err
		}
		defer st.Close()

		opts := historyOptions(cmd)
		if !cmd.Flags().Changed("limit") {
			opts.Limit = -1
		}

		var path string
		switch format {
		case "yaml":
			path, err = st.ExportYAML(cmd.Context(), opts)
		case "json":
			path, err = st.ExportJSON(cmd.Context(), opts)
		default:
			return fmt.Errorf("unsupported export format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported to %s\n", path)
		return nil
	},
}

// openHistory opens the tool-call store named by the configuration.
func openHistory() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Store)
}

func historyOptions(cmd *cobra.Command) store.ListOptions {
	tool, _ := cmd.Flags().GetString("tool")
	status, _ := cmd.Flags().GetString("status")
	contains, _ := cmd.Flags().GetString("contains")
	limit, _ := cmd.Flags().GetInt("limit")
	return store.ListOptions{Tool: tool, Status: status, Contains: contains, Limit: limit}
}

// clip shortens s to max bytes for table output.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	historyCmd.PersistentFlags().String("tool", "", "filter by tool name")
	historyCmd.PersistentFlags().String("status", "", "filter by status: success or error")
	historyCmd.PersistentFlags().String("contains", "", "filter by text in the arguments")
	historyCmd.PersistentFlags().Int("limit", 20, "maximum number of calls (-1 for all)")
	historyCmd.Flags().Bool("json", false, "output calls as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyShowCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
