// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"strings"

	"github.com/jeranaias/linepatch/internal/patch"
)

// =============================================================================
// SCRIPT STATS
// =============================================================================

// Stats holds statistics about a script.
type Stats struct {
	Instructions int `json:"instructions"`
	Inserts      int `json:"inserts"`
	Substitutes  int `json:"substitutes"`
	Deletes      int `json:"deletes"`
	MultiDeletes int `json:"multi_deletes"`
	LinesAdded   int `json:"lines_added"`   // Content lines written
	LinesRemoved int `json:"lines_removed"` // Original lines dropped
	Cost         int `json:"cost"`
}

// Measure computes the statistics of s under costs.
func Measure(s patch.Script, costs Costs) Stats {
	counts := s.Counts()
	st := Stats{
		Instructions: len(s),
		Inserts:      counts[patch.Insert],
		Substitutes:  counts[patch.Substitute],
		Deletes:      counts[patch.Delete],
		MultiDeletes: counts[patch.MultiDelete],
		LinesAdded:   counts[patch.Insert] + counts[patch.Substitute],
		Cost:         costs.Total(s),
	}
	for _, in := range s {
		st.LinesRemoved += in.Removed()
	}
	return st
}

// Summary returns a human-readable summary, e.g. "Modified +3 -1 (cost 52)".
func (s Stats) Summary() string {
	if s.Instructions == 0 {
		return "Unchanged"
	}

	parts := []string{"Modified"}
	if s.LinesAdded > 0 {
		parts = append(parts, fmt.Sprintf("+%d", s.LinesAdded))
	}
	if s.LinesRemoved > 0 {
		parts = append(parts, fmt.Sprintf("-%d", s.LinesRemoved))
	}
	parts = append(parts, fmt.Sprintf("(cost %d)", s.Cost))

	return strings.Join(parts, " ")
}
