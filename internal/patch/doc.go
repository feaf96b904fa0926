// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package patch defines line edit instructions, their text format and the
// interpreter that replays them against an original file.
//
// # Key Types
//
//   - Instruction: one Insert, Substitute, Delete or MultiDelete
//   - Script: an ordered instruction sequence
//   - Interpreter: streaming replay with a consumed-line cursor
//   - MalformedError, FormatError: the failure taxonomy
//
// # Text Format
//
//	+ k        insert the next line after original line k (k = 0: at the top)
//	= k        replace original line k with the next line
//	d k        delete original line k
//	D k m      delete m lines starting at original line k
//
// Line references never go backwards: Insert may repeat the last consumed
// line, every other instruction must move strictly past it.
//
// # Usage
//
//	script, err := patch.Parse(text)
//	result, err := patch.Apply(original, script)
package patch
