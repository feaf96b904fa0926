// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package patch

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/linepatch/internal/lines"
)

// =============================================================================
// INTERPRETER
// =============================================================================

// Interpreter replays a script against an original line stream. It only
// reads forward in the original and writes output as soon as it is known.
type Interpreter struct {
	src      *lines.Reader
	dst      io.Writer
	consumed int
	written  int
}

// NewInterpreter returns an Interpreter reading the original from src and
// writing the result to dst.
func NewInterpreter(src *lines.Reader, dst io.Writer) *Interpreter {
	return &Interpreter{src: src, dst: dst}
}

// Run applies every instruction in order and then copies the rest of the
// original. It stops at the first failure; output already written stays.
func (it *Interpreter) Run(s Script) error {
	for i, in := range s {
		if err := it.Step(i, in); err != nil {
			return err
		}
	}
	return it.Finish()
}

// Step applies a single instruction. index is only used for error reports.
func (it *Interpreter) Step(index int, in Instruction) error {
	if err := checkShape(index, in); err != nil {
		return err
	}
	if err := checkOrder(index, in, it.consumed); err != nil {
		return err
	}

	switch in.Op {
	case Insert:
		if err := it.copyThrough(index, in, in.Line); err != nil {
			return err
		}
		return it.emit(in.Content)

	case Substitute:
		if err := it.copyThrough(index, in, in.Line-1); err != nil {
			return err
		}
		if err := it.skip(index, in, 1); err != nil {
			return err
		}
		return it.emit(in.Content)

	case Delete:
		if err := it.copyThrough(index, in, in.Line-1); err != nil {
			return err
		}
		return it.skip(index, in, 1)

	case MultiDelete:
		if err := it.copyThrough(index, in, in.Line-1); err != nil {
			return err
		}
		return it.skip(index, in, in.Count)
	}
	return nil
}

// Finish copies every remaining original line to the output.
func (it *Interpreter) Finish() error {
	for {
		line, err := it.src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		it.consumed++
		if err := it.emit(line); err != nil {
			return err
		}
	}
}

// Consumed returns how many original lines have been copied or skipped.
func (it *Interpreter) Consumed() int {
	return it.consumed
}

// Written returns how many lines have been emitted.
func (it *Interpreter) Written() int {
	return it.written
}

// copyThrough copies original lines (consumed, upto] unchanged.
func (it *Interpreter) copyThrough(index int, in Instruction, upto int) error {
	for it.consumed < upto {
		line, err := it.next(index, in)
		if err != nil {
			return err
		}
		if err := it.emit(line); err != nil {
			return err
		}
	}
	return nil
}

// skip drops n original lines.
func (it *Interpreter) skip(index int, in Instruction, n int) error {
	for ; n > 0; n-- {
		if _, err := it.next(index, in); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) next(index int, in Instruction) (string, error) {
	line, err := it.src.Next()
	if errors.Is(err, io.EOF) {
		return "", malformed(index, in, ErrOutOfRange,
			fmt.Sprintf("original has only %d lines", it.consumed))
	}
	if err != nil {
		return "", err
	}
	it.consumed++
	return line, nil
}

func (it *Interpreter) emit(line string) error {
	if _, err := io.WriteString(it.dst, line); err != nil {
		return err
	}
	it.written++
	return nil
}

// =============================================================================
// IN-MEMORY APPLY
// =============================================================================

// Apply replays s against original and returns the resulting lines.
func Apply(original lines.Sequence, s Script) (lines.Sequence, error) {
	var buf bytes.Buffer
	if err := NewInterpreter(original.Reader(), &buf).Run(s); err != nil {
		return nil, err
	}
	return lines.Split(buf.String()), nil
}
