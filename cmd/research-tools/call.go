// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-tools/internal/tools"
)

var callCmd = &cobra.Command{
	Use:   "call <tool> [arguments]",
	Short: "Invoke a tool with a JSON argument object",
	Long: `Call invokes any registered tool exactly as a chat backend would: the
arguments are a JSON object, given inline or read from stdin with "-".
The result envelope is printed as JSON.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		redact, _ := cmd.Flags().GetBool("redact")

		var raw []byte
		switch {
		case len(args) < 2:
		case args[1] == "-":
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading arguments: %w", err)
			}
			raw = data
		default:
			raw = []byte(args[1])
		}

		a, err := newApp(nil, os.Stderr)
		if err != nil {
			return err
		}
		defer a.close()

		if !a.registry.Has(args[0]) {
			return fmt.Errorf("unknown tool %q", args[0])
		}
		res := a.registry.Call(cmd.Context(), args[0], json.RawMessage(raw))
		if redact {
			res = res.Redacted()
		}
		if err := writeOutput(os.Stdout, "json", res, nil); err != nil {
			return err
		}
		if res.Status == tools.StatusError {
			return fmt.Errorf("%s returned an error", args[0])
		}
		return nil
	},
}

func init() {
	callCmd.Flags().Bool("redact", false, "strip raw page content from the result")

	rootCmd.AddCommand(callCmd)
}
