// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff computes minimum-cost line edit scripts and renders them.
//
// The engine is a dynamic program over (original line, target line) pairs
// with five moves: copy (free), substitute and insert (Base plus the line's
// byte length), delete (Base) and multi-delete (a flat MultiBase for two or
// more consecutive lines). Ties go to the earlier move in that list, which
// keeps the output deterministic.
//
// # Key Types
//
//   - Costs: the tunable cost model (defaults Base=10, MultiBase=15)
//   - Result: the computed patch.Script and its total cost
//   - Stats: instruction counts and totals for reporting
//   - Line, Hunk: unified diff preview of a script
//
// # Usage
//
//	res := diff.Compute(original, target, diff.DefaultCosts())
//	text, _ := patch.Format(res.Script)
//
// Preview a script as a unified diff:
//
//	out, err := diff.Preview("file.txt", original, res.Script)
package diff
