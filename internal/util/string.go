// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// UNICODE: Widths are measured in terminal columns, so paths containing CJK
// or emoji line up in tables.

// StringWidth returns the display width of s in terminal columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth truncates s to at most maxWidth columns. When truncation
// happens and there is room, "..." is appended within the limit.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// TruncateLeft keeps the rightmost columns of s, prefixing "..." when
// something was cut. Useful for file paths, where the tail matters most.
func TruncateLeft(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	runes := []rune(s)
	width := 0
	i := len(runes)
	for i > 0 {
		w := runewidth.RuneWidth(runes[i-1])
		if width+w > maxWidth-3 {
			break
		}
		width += w
		i--
	}
	return "..." + string(runes[i:])
}

// PadRight pads s with spaces to exactly width columns, truncating first if
// it is too wide.
func PadRight(s string, width int) string {
	s = TruncateWidth(s, width)
	return runewidth.FillRight(s, width)
}
