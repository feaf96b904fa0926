// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package patch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jeranaias/linepatch/internal/lines"
)

// =============================================================================
// ENCODING
// =============================================================================

// Encode writes the script in the text format:
//
//	+ k        followed by the content line
//	= k        followed by the content line
//	d k
//	D k m
//
// Content is written verbatim. A content line without a trailing newline is
// only representable as the final record, so Encode rejects it elsewhere.
func Encode(w io.Writer, s Script) error {
	for i, in := range s {
		if err := checkShape(i, in); err != nil {
			return err
		}
		if _, err := io.WriteString(w, in.Header()+"\n"); err != nil {
			return err
		}
		if !in.Op.HasContent() {
			continue
		}
		if !strings.HasSuffix(in.Content, "\n") && i != len(s)-1 {
			return malformed(i, in, ErrMissingContent, "unterminated content must be the last record")
		}
		if _, err := io.WriteString(w, in.Content); err != nil {
			return err
		}
	}
	return nil
}

// Format returns the encoded text of s.
func Format(s Script) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// =============================================================================
// DECODING
// =============================================================================

// Decoder reads instructions from patch text one record at a time.
type Decoder struct {
	src  *lines.Reader
	line int
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{src: lines.NewReader(r)}
}

// Next returns the next instruction, or io.EOF when the input is exhausted.
func (d *Decoder) Next() (Instruction, error) {
	header, err := d.src.Next()
	if err != nil {
		return Instruction{}, err
	}
	d.line++
	text := strings.TrimRight(header, "\r\n")

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Instruction{}, d.fail(text, "empty instruction header")
	}

	var in Instruction
	switch fields[0] {
	case "+":
		in.Op = Insert
	case "=":
		in.Op = Substitute
	case "d":
		in.Op = Delete
	case "D":
		in.Op = MultiDelete
	default:
		return Instruction{}, d.fail(text, fmt.Sprintf("unknown instruction %q", fields[0]))
	}

	want := 2
	if in.Op == MultiDelete {
		want = 3
	}
	if len(fields) < want {
		return Instruction{}, d.fail(text, "missing line number field")
	}
	if len(fields) > want {
		return Instruction{}, d.fail(text, "unexpected trailing fields")
	}

	if in.Line, err = d.number(text, fields[1]); err != nil {
		return Instruction{}, err
	}
	if in.Op == MultiDelete {
		if in.Count, err = d.number(text, fields[2]); err != nil {
			return Instruction{}, err
		}
	}

	if in.Op.HasContent() {
		content, err := d.src.Next()
		if errors.Is(err, io.EOF) {
			return Instruction{}, d.fail(text, "missing content line")
		}
		if err != nil {
			return Instruction{}, err
		}
		d.line++
		in.Content = content
	}
	return in, nil
}

// number parses a non-negative decimal field.
func (d *Decoder) number(text, field string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		return 0, d.fail(text, fmt.Sprintf("invalid number %q", field))
	}
	return n, nil
}

func (d *Decoder) fail(text, reason string) error {
	return &FormatError{Line: d.line, Text: text, Reason: reason}
}

// Decode reads every instruction from r.
func Decode(r io.Reader) (Script, error) {
	dec := NewDecoder(r)
	script := Script{}
	for {
		in, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return script, nil
		}
		if err != nil {
			return nil, err
		}
		script = append(script, in)
	}
}

// Parse decodes patch text held in memory.
func Parse(text string) (Script, error) {
	return Decode(strings.NewReader(text))
}
