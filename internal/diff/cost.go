// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"errors"
	"fmt"

	"github.com/jeranaias/linepatch/internal/patch"
)

// =============================================================================
// COST MODEL
// =============================================================================

const (
	// DefaultBaseCost is charged for a Delete and added to every content line
	DefaultBaseCost = 10
	// DefaultMultiBaseCost is the flat price of a MultiDelete of any length
	DefaultMultiBaseCost = 15
)

// Costs prices edit instructions. Copying an unchanged line is free.
type Costs struct {
	Base      int // Delete, and the fixed part of Insert/Substitute
	MultiBase int // MultiDelete, independent of the span
}

// DefaultCosts returns the standard cost model.
func DefaultCosts() Costs {
	return Costs{Base: DefaultBaseCost, MultiBase: DefaultMultiBaseCost}
}

// ErrInvalidCosts is returned by Validate.
var ErrInvalidCosts = errors.New("invalid cost model")

// Validate checks that a MultiDelete of two or more lines is cheaper than the
// same number of Deletes while never undercutting a single Delete.
func (c Costs) Validate() error {
	if c.Base <= 0 {
		return fmt.Errorf("%w: base cost must be positive, got %d", ErrInvalidCosts, c.Base)
	}
	if c.MultiBase < c.Base || c.MultiBase >= 2*c.Base {
		return fmt.Errorf("%w: multi-delete cost %d must be in [%d, %d)",
			ErrInvalidCosts, c.MultiBase, c.Base, 2*c.Base)
	}
	return nil
}

// Line returns the price of writing content via Insert or Substitute.
// The length counts bytes, including the line terminator.
func (c Costs) Line(content string) int {
	return c.Base + len(content)
}

// Of returns the price of a single instruction.
func (c Costs) Of(in patch.Instruction) int {
	switch in.Op {
	case patch.Insert, patch.Substitute:
		return c.Line(in.Content)
	case patch.Delete:
		return c.Base
	case patch.MultiDelete:
		return c.MultiBase
	default:
		return 0
	}
}

// Total returns the price of a whole script.
func (c Costs) Total(s patch.Script) int {
	total := 0
	for _, in := range s {
		total += c.Of(in)
	}
	return total
}
