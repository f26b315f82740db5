package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode controls whether batch generation draws the interactive progress
// view or falls back to plain per-file lines.
type uiMode int

const (
	uiAuto uiMode = iota
	uiAlways
	uiNever
)

func parseUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiAuto, nil
	case "on", "always":
		return uiAlways, nil
	case "off", "never":
		return uiNever, nil
	}
	return uiAuto, fmt.Errorf("--ui must be auto, on or off (got %q)", value)
}

// useTUI resolves the auto mode against the output: the progress view only
// makes sense when stdout is a terminal.
func (m uiMode) useTUI() bool {
	switch m {
	case uiAlways:
		return true
	case uiNever:
		return false
	}
	return isTerminal(os.Stdout)
}
