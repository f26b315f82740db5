package main

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// applyColorMode honors the --color persistent flag before any output.
func applyColorMode(cmd *cobra.Command) {
	value, _ := cmd.Root().PersistentFlags().GetString("color")
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}
