// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the linepatch commands.
//
// # Key Functions
//
// File Operations:
//   - CreateAtomic / AtomicFile: Streamed writes committed by rename
//   - WriteFileAtomic: One-shot wrapper around AtomicFile
//
// Display Width:
//   - StringWidth: Column width of a string (CJK aware)
//   - TruncateWidth, TruncateLeft: Width-bounded truncation with ellipsis
//   - PadRight: Fixed-width table cells
//
// # Usage
//
//	// Never leave a half-written patched file behind
//	err := util.WriteFileAtomic(path, data, 0644)
//
//	// Fit a path into a table column
//	cell := util.PadRight(util.TruncateLeft(path, 30), 30)
package util
