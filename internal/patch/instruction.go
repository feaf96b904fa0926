// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package patch

import (
	"fmt"
	"strings"
)

// =============================================================================
// OPERATIONS
// =============================================================================

// Op identifies the kind of an instruction.
type Op uint8

const (
	// Insert adds Content after original line Line (0 = before the first line)
	Insert Op = iota + 1
	// Substitute replaces original line Line with Content
	Substitute
	// Delete removes original line Line
	Delete
	// MultiDelete removes Count lines starting at original line Line
	MultiDelete
)

// String returns the name of the operation.
func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Substitute:
		return "substitute"
	case Delete:
		return "delete"
	case MultiDelete:
		return "multi-delete"
	default:
		return "unknown"
	}
}

// Symbol returns the header character used in the text format.
func (o Op) Symbol() string {
	switch o {
	case Insert:
		return "+"
	case Substitute:
		return "="
	case Delete:
		return "d"
	case MultiDelete:
		return "D"
	default:
		return "?"
	}
}

// HasContent reports whether the operation carries a content line.
func (o Op) HasContent() bool {
	return o == Insert || o == Substitute
}

// =============================================================================
// INSTRUCTION
// =============================================================================

// Instruction is a single line edit against the original sequence.
type Instruction struct {
	Op      Op     // Kind of edit
	Line    int    // Original line k the edit refers to
	Count   int    // Lines removed by MultiDelete (0 otherwise)
	Content string // Raw line for Insert/Substitute, terminator included
}

// InsertAfter builds an Insert of content after original line k.
func InsertAfter(k int, content string) Instruction {
	return Instruction{Op: Insert, Line: k, Content: content}
}

// SubstituteAt builds a Substitute of original line k.
func SubstituteAt(k int, content string) Instruction {
	return Instruction{Op: Substitute, Line: k, Content: content}
}

// DeleteAt builds a Delete of original line k.
func DeleteAt(k int) Instruction {
	return Instruction{Op: Delete, Line: k}
}

// DeleteRange builds a MultiDelete of m lines starting at original line k.
func DeleteRange(k, m int) Instruction {
	return Instruction{Op: MultiDelete, Line: k, Count: m}
}

// LastLine returns the highest original line number the instruction touches.
func (in Instruction) LastLine() int {
	if in.Op == MultiDelete {
		return in.Line + in.Count - 1
	}
	return in.Line
}

// Removed returns how many original lines the instruction drops.
func (in Instruction) Removed() int {
	switch in.Op {
	case Substitute, Delete:
		return 1
	case MultiDelete:
		return in.Count
	default:
		return 0
	}
}

// Header returns the instruction's header line without the terminator.
func (in Instruction) Header() string {
	if in.Op == MultiDelete {
		return fmt.Sprintf("%s %d %d", in.Op.Symbol(), in.Line, in.Count)
	}
	return fmt.Sprintf("%s %d", in.Op.Symbol(), in.Line)
}

// String returns a short human-readable form, e.g. `= 3 "foo"`.
func (in Instruction) String() string {
	if in.Op.HasContent() {
		return fmt.Sprintf("%s %q", in.Header(), strings.TrimSuffix(in.Content, "\n"))
	}
	return in.Header()
}

// =============================================================================
// SCRIPT
// =============================================================================

// Script is an ordered instruction sequence.
type Script []Instruction

// Counts returns how many instructions of each Op the script holds.
func (s Script) Counts() map[Op]int {
	counts := make(map[Op]int, 4)
	for _, in := range s {
		counts[in.Op]++
	}
	return counts
}

// Validate checks the ordering and shape rules without an original sequence.
// Range checks need the original and are left to the interpreter.
func (s Script) Validate() error {
	consumed := 0
	for i, in := range s {
		if err := checkShape(i, in); err != nil {
			return err
		}
		if err := checkOrder(i, in, consumed); err != nil {
			return err
		}
		consumed = in.LastLine()
	}
	return nil
}

// checkShape verifies the fields required by the instruction's Op.
func checkShape(index int, in Instruction) error {
	switch in.Op {
	case Insert, Substitute:
		if in.Content == "" {
			return malformed(index, in, ErrMissingContent, "instruction has no content line")
		}
	case Delete:
	case MultiDelete:
		if in.Count < 1 {
			return malformed(index, in, ErrBadCount, fmt.Sprintf("count must be at least 1, got %d", in.Count))
		}
	default:
		return malformed(index, in, ErrUnknownOp, fmt.Sprintf("unknown operation %d", in.Op))
	}
	if in.Line < 0 {
		return malformed(index, in, ErrOutOfRange, fmt.Sprintf("negative line %d", in.Line))
	}
	return nil
}

// checkOrder enforces the cursor rules: Insert may reuse the consumed line,
// every other op must move strictly past it.
func checkOrder(index int, in Instruction, consumed int) error {
	if in.Op == Insert {
		if in.Line < consumed {
			return malformed(index, in, ErrMonotonicity,
				fmt.Sprintf("insert after line %d but line %d already consumed", in.Line, consumed))
		}
		return nil
	}
	if in.Line <= consumed {
		return malformed(index, in, ErrMonotonicity,
			fmt.Sprintf("%s at line %d must follow consumed line %d", in.Op, in.Line, consumed))
	}
	return nil
}
