// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package patch

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrMalformed matches every *MalformedError.
	ErrMalformed = errors.New("malformed instruction sequence")
	// ErrFormat matches every *FormatError.
	ErrFormat = errors.New("patch format error")

	ErrMonotonicity   = errors.New("line references out of order")
	ErrOutOfRange     = errors.New("line reference beyond original")
	ErrBadCount       = errors.New("invalid multi-delete count")
	ErrMissingContent = errors.New("missing content line")
	ErrUnknownOp      = errors.New("unknown operation")
)

// MalformedError reports an instruction that cannot be applied. Rule is one
// of the Err* sentinels above; errors.Is matches both Rule and ErrMalformed.
type MalformedError struct {
	Index       int // 0-based position in the script
	Instruction Instruction
	Rule        error
	Detail      string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %v: %s", e.Index+1, e.Instruction.Header(), e.Rule, e.Detail)
}

func (e *MalformedError) Unwrap() []error {
	return []error{ErrMalformed, e.Rule}
}

func malformed(index int, in Instruction, rule error, detail string) error {
	return &MalformedError{Index: index, Instruction: in, Rule: rule, Detail: detail}
}

// FormatError reports unparseable patch text.
type FormatError struct {
	Line   int    // 1-based line in the patch text
	Text   string // Offending header, terminator stripped
	Reason string
}

func (e *FormatError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("patch line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("patch line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}
