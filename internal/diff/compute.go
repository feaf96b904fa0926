// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"slices"

	"github.com/jeranaias/linepatch/internal/lines"
	"github.com/jeranaias/linepatch/internal/patch"
)

// =============================================================================
// CHOICE MATRIX
// =============================================================================

// rule is the recurrence step that produced a cell, in priority order.
type rule uint32

const (
	ruleNone rule = iota
	ruleCopy
	ruleSubstitute
	ruleInsert
	ruleDelete
	ruleMultiDelete
)

const ruleBits = 3

// maxSpan is the longest MultiDelete a choice can record.
const maxSpan = 1<<(32-ruleBits) - 1

// choice packs the winning rule and, for MultiDelete, the number of original
// lines deleted (the predecessor is then row i-span of the same column).
type choice uint32

func pack(r rule, span int) choice {
	if span < 0 || span > maxSpan {
		panic(fmt.Sprintf("diff: multi-delete span %d exceeds %d lines", span, maxSpan))
	}
	return choice(uint32(span)<<ruleBits | uint32(r))
}

func (c choice) rule() rule {
	return rule(c & (1<<ruleBits - 1))
}

func (c choice) span() int {
	return int(c >> ruleBits)
}

// =============================================================================
// COMPUTATION
// =============================================================================

// Result is a minimum-cost script together with its price.
type Result struct {
	Script patch.Script
	Cost   int
	Costs  Costs
	Cells  int // Size of the choice matrix that was filled
}

// Compute returns a minimum-cost script turning original into target.
//
// cost[i][j] is the cheapest way to turn original[1..i] into target[1..j].
// Candidates are tried as Copy, Substitute, Insert, Delete, MultiDelete and a
// later candidate only wins with a strictly lower cost. MultiDelete looks at
// cost[i'][j] for every i' < i-1; the running minimum per column makes that
// O(1) per cell.
//
// An invalid cost model (see Costs.Validate) is replaced by DefaultCosts;
// Result.Costs reports the model that was used. The MultiBase >= Base > 0
// bound is what keeps an unterminated last target line at the end of the
// script, where Encode accepts it.
//
// Costs are kept as three rolling rows. The choice matrix is kept in full at
// four bytes per cell because the backtrace needs every cell: time and space
// are both O(len(original) * len(target)).
func Compute(original, target lines.Sequence, costs Costs) *Result {
	if costs.Validate() != nil {
		costs = DefaultCosts()
	}

	n, m := len(original), len(target)
	width := m + 1
	choices := make([]choice, (n+1)*width)

	lineCost := make([]int, width)
	for j := 1; j <= m; j++ {
		lineCost[j] = costs.Line(target[j-1])
	}

	older := make([]int, width) // row i-2
	prev := make([]int, width)  // row i-1
	cur := make([]int, width)   // row i

	// Cheapest row i' <= i-2 seen so far in each column.
	bestCost := make([]int, width)
	bestRow := make([]int, width)

	// Row 0: pure insertion prefix.
	for j := 1; j <= m; j++ {
		cur[j] = cur[j-1] + lineCost[j]
		choices[j] = pack(ruleInsert, 0)
	}

	for i := 1; i <= n; i++ {
		older, prev, cur = prev, cur, older

		if i == 2 {
			copy(bestCost, older)
		} else if i > 2 {
			for j := 0; j <= m; j++ {
				if older[j] < bestCost[j] {
					bestCost[j] = older[j]
					bestRow[j] = i - 2
				}
			}
		}

		row := choices[i*width : (i+1)*width]
		line := original[i-1]

		for j := 0; j <= m; j++ {
			var best int
			var pick choice

			if j > 0 {
				diag := prev[j-1]
				if line == target[j-1] {
					best, pick = diag, pack(ruleCopy, 0)
				} else {
					best, pick = diag+lineCost[j], pack(ruleSubstitute, 0)
				}
				if c := cur[j-1] + lineCost[j]; c < best {
					best, pick = c, pack(ruleInsert, 0)
				}
				if c := prev[j] + costs.Base; c < best {
					best, pick = c, pack(ruleDelete, 0)
				}
			} else {
				best, pick = prev[j]+costs.Base, pack(ruleDelete, 0)
			}

			if i >= 2 {
				if c := bestCost[j] + costs.MultiBase; c < best {
					best, pick = c, pack(ruleMultiDelete, i-bestRow[j])
				}
			}

			cur[j] = best
			row[j] = pick
		}
	}

	return &Result{
		Script: backtrace(choices, width, original, target),
		Cost:   cur[m],
		Costs:  costs,
		Cells:  len(choices),
	}
}

// backtrace walks the choice matrix from (n, m) to (0, 0) and returns the
// instructions in forward order. Copy steps emit nothing.
func backtrace(choices []choice, width int, original, target lines.Sequence) patch.Script {
	i, j := len(original), len(target)
	script := patch.Script{}

	for i > 0 || j > 0 {
		c := choices[i*width+j]
		switch c.rule() {
		case ruleCopy:
			i, j = i-1, j-1
		case ruleSubstitute:
			script = append(script, patch.SubstituteAt(i, target[j-1]))
			i, j = i-1, j-1
		case ruleInsert:
			script = append(script, patch.InsertAfter(i, target[j-1]))
			j--
		case ruleDelete:
			script = append(script, patch.DeleteAt(i))
			i--
		case ruleMultiDelete:
			span := c.span()
			script = append(script, patch.DeleteRange(i-span+1, span))
			i -= span
		default:
			panic(fmt.Sprintf("diff: empty choice at (%d, %d)", i, j))
		}
	}

	slices.Reverse(script)
	return script
}
