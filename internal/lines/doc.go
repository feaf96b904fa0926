// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lines loads and streams text as raw, newline-terminated lines.
//
// Every line keeps its terminator exactly as read, so joining a Sequence
// reproduces the input byte for byte, including a missing final newline.
//
// # Key Types
//
//   - Sequence: an in-memory, 1-indexed view over raw lines
//   - Reader: lazy line source used by the patch interpreter
//
// # Usage
//
//	seq, err := lines.ReadFile("original.txt")
//	fmt.Println(seq.Len(), seq.At(1))
package lines
