package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"abibind/internal/abi"
	"abibind/internal/naming"
)

// selectorsCmd dumps the resolver's view of an ABI: one line per function
// with its binding identifier, selector and canonical signature. It runs
// the same collision pass as generation, so a colliding ABI fails here too.
var selectorsCmd = &cobra.Command{
	Use:   "selectors <abi.json>",
	Short: "Print the selector table for an ABI document",
	Args:  cobra.ExactArgs(1),
	RunE:  selectorsExecution,
}

type selectorRow struct {
	Identifier string `json:"identifier"`
	Selector   string `json:"selector"`
	Signature  string `json:"signature"`
}

func init() {
	selectorsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func selectorsExecution(cmd *cobra.Command, args []string) error {
	applyColorMode(cmd)

	format, _ := cmd.Flags().GetString("format")
	if format != "pretty" && format != "json" {
		return fmt.Errorf("invalid --format value %q (expected pretty|json)", format)
	}

	input, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	doc, err := abi.Parse(input)
	if err != nil {
		return err
	}

	resolver := naming.NewResolver()
	rows := make([]selectorRow, 0, len(doc.Functions))
	for i := range doc.Functions {
		b, err := resolver.Resolve(&doc.Functions[i])
		if err != nil {
			return err
		}
		rows = append(rows, selectorRow{
			Identifier: b.Identifier,
			Selector:   b.Selector.Hex(),
			Signature:  b.Signature,
		})
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	width := 0
	for _, r := range rows {
		if len(r.Identifier) > width {
			width = len(r.Identifier)
		}
	}
	for _, r := range rows {
		fmt.Fprintf(cmd.OutOrStdout(), "%-*s  %s  %s\n", width, r.Identifier, r.Selector, r.Signature)
	}
	return nil
}
