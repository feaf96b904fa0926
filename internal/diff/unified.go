// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"strings"

	"github.com/jeranaias/linepatch/internal/lines"
	"github.com/jeranaias/linepatch/internal/patch"
)

// =============================================================================
// DIFF LINES
// =============================================================================

// LineType represents the type of a preview line.
type LineType int

const (
	// LineContext represents unchanged lines
	LineContext LineType = iota
	// LineAdded represents lines written by Insert or Substitute
	LineAdded
	// LineRemoved represents original lines dropped by an instruction
	LineRemoved
)

// String returns the string representation of a line type.
func (t LineType) String() string {
	switch t {
	case LineContext:
		return "context"
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Prefix returns the unified diff prefix character for this line type.
func (t LineType) Prefix() string {
	switch t {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// Line is a single line of a preview.
type Line struct {
	Type    LineType
	Content string // Raw content, terminator included
	OldLine int    // Line number in the original (0 if added)
	NewLine int    // Line number in the result (0 if removed)
}

// Hunk is a contiguous group of changes with surrounding context.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// =============================================================================
// ANNOTATION
// =============================================================================

// Annotate replays s against original and labels every line of the walk as
// context, added or removed.
func Annotate(original lines.Sequence, s patch.Script) ([]Line, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var out []Line
	consumed, written := 0, 0

	keep := func(upto int) {
		for consumed < upto {
			consumed++
			written++
			out = append(out, Line{Type: LineContext, Content: original[consumed-1], OldLine: consumed, NewLine: written})
		}
	}
	drop := func(n int) {
		for ; n > 0; n-- {
			consumed++
			out = append(out, Line{Type: LineRemoved, Content: original[consumed-1], OldLine: consumed})
		}
	}
	add := func(content string) {
		written++
		out = append(out, Line{Type: LineAdded, Content: content, NewLine: written})
	}

	for i, in := range s {
		if in.LastLine() > len(original) {
			return nil, &patch.MalformedError{
				Index:       i,
				Instruction: in,
				Rule:        patch.ErrOutOfRange,
				Detail:      fmt.Sprintf("original has %d lines", len(original)),
			}
		}
		switch in.Op {
		case patch.Insert:
			keep(in.Line)
			add(in.Content)
		case patch.Substitute:
			keep(in.Line - 1)
			drop(1)
			add(in.Content)
		case patch.Delete:
			keep(in.Line - 1)
			drop(1)
		case patch.MultiDelete:
			keep(in.Line - 1)
			drop(in.Count)
		}
	}
	keep(len(original))

	return out, nil
}

// =============================================================================
// HUNKS
// =============================================================================

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

// GroupHunks splits annotated lines into hunks, keeping up to context
// unchanged lines on each side of a change and merging hunks whose context
// would overlap.
func GroupHunks(annotated []Line, context int) []Hunk {
	var hunks []Hunk
	start, end := -1, -1

	flush := func() {
		if start < 0 {
			return
		}
		hunks = append(hunks, newHunk(annotated, start, end))
		start, end = -1, -1
	}

	for i, line := range annotated {
		if line.Type == LineContext {
			continue
		}
		lo := max(0, i-context)
		hi := min(len(annotated)-1, i+context)
		if start >= 0 && lo > end+1 {
			flush()
		}
		if start < 0 {
			start = lo
		}
		end = hi
	}
	flush()

	return hunks
}

// newHunk builds the hunk covering annotated[start..end].
func newHunk(annotated []Line, start, end int) Hunk {
	// Lines on each side before the hunk begins.
	oldBefore, newBefore := 0, 0
	for _, line := range annotated[:start] {
		if line.Type != LineAdded {
			oldBefore++
		}
		if line.Type != LineRemoved {
			newBefore++
		}
	}

	h := Hunk{Lines: annotated[start : end+1]}
	for _, line := range h.Lines {
		if line.Type != LineAdded {
			h.OldCount++
		}
		if line.Type != LineRemoved {
			h.NewCount++
		}
	}

	// An empty side starts at the line before the hunk.
	h.OldStart, h.NewStart = oldBefore, newBefore
	if h.OldCount > 0 {
		h.OldStart++
	}
	if h.NewCount > 0 {
		h.NewStart++
	}
	return h
}

// =============================================================================
// UNIFIED DIFF FORMAT
// =============================================================================

// FormatUnified renders hunks in unified diff format with a/ and b/ headers.
func FormatUnified(path string, hunks []Hunk) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("--- a/%s\n", path))
	sb.WriteString(fmt.Sprintf("+++ b/%s\n", path))

	for _, hunk := range hunks {
		sb.WriteString(fmt.Sprintf("@@ -%d,%d +%d,%d @@\n",
			hunk.OldStart, hunk.OldCount,
			hunk.NewStart, hunk.NewCount))

		for _, line := range hunk.Lines {
			sb.WriteString(line.Type.Prefix())
			sb.WriteString(strings.TrimSuffix(line.Content, "\n"))
			sb.WriteString("\n")
			if !strings.HasSuffix(line.Content, "\n") {
				sb.WriteString("\\ No newline at end of file\n")
			}
		}
	}

	return sb.String()
}

// Preview renders the effect of s on original as a unified diff.
func Preview(path string, original lines.Sequence, s patch.Script) (string, error) {
	annotated, err := Annotate(original, s)
	if err != nil {
		return "", err
	}
	return FormatUnified(path, GroupHunks(annotated, ContextLines)), nil
}
