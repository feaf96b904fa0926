// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for linepatch output.
//
// Patch text and patched files go to stdout and are frequently redirected,
// so every decision here is made for the writer a command prints to rather
// than for the process as a whole.

package cli

import (
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is used when the output is not a terminal
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the narrowest layout the history table supports
	MinTerminalWidth = 60
)

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the column count of w, clamped to
// MinTerminalWidth. Pipes, buffers and files get DefaultTerminalWidth.
func terminalWidth(w io.Writer) int {
	f, ok := w.(fder)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return max(width, MinTerminalWidth)
}

// resolveColors decides whether output to w is styled. In order:
// --no-color, output.color "never"/"always", NO_COLOR, FORCE_COLOR, and
// finally whether w is a terminal.
func resolveColors(mode string, noColor bool, w io.Writer) bool {
	switch {
	case noColor, strings.EqualFold(mode, "never"):
		return false
	case strings.EqualFold(mode, "always"):
		return true
	case os.Getenv("NO_COLOR") != "":
		return false
	case os.Getenv("FORCE_COLOR") != "":
		return true
	}
	return isTerminal(w)
}

// colorProfile maps the color decision onto a termenv profile for lipgloss.
func colorProfile(enabled bool) termenv.Profile {
	if !enabled {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
