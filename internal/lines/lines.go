// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lines

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// =============================================================================
// SEQUENCE
// =============================================================================

// Sequence is an ordered list of raw lines. Each element includes its "\n"
// terminator; only the final element may lack one. Line numbers used by the
// accessor methods are 1-based.
type Sequence []string

// Len returns the number of lines.
func (s Sequence) Len() int {
	return len(s)
}

// At returns line k (1-based). It panics when k is out of range.
func (s Sequence) At(k int) string {
	return s[k-1]
}

// String joins the lines back into the original text.
func (s Sequence) String() string {
	var sb strings.Builder
	for _, line := range s {
		sb.WriteString(line)
	}
	return sb.String()
}

// Equal reports whether two sequences hold the same lines byte for byte.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// WriteTo writes every line to w.
func (s Sequence) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range s {
		n, err := io.WriteString(w, line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Split breaks text into raw lines, keeping terminators. An empty string
// yields an empty Sequence.
func Split(text string) Sequence {
	if text == "" {
		return Sequence{}
	}
	seq := make(Sequence, 0, strings.Count(text, "\n")+1)
	for text != "" {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			seq = append(seq, text)
			break
		}
		seq = append(seq, text[:idx+1])
		text = text[idx+1:]
	}
	return seq
}

// Read consumes r completely and returns its lines.
func Read(r io.Reader) (Sequence, error) {
	lr := NewReader(r)
	seq := Sequence{}
	for {
		line, err := lr.Next()
		if errors.Is(err, io.EOF) {
			return seq, nil
		}
		if err != nil {
			return nil, err
		}
		seq = append(seq, line)
	}
}

// ReadFile loads the file at path as a Sequence.
func ReadFile(path string) (Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seq, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return seq, nil
}

// =============================================================================
// READER
// =============================================================================

// Reader yields raw lines one at a time without buffering the whole input.
type Reader struct {
	br   *bufio.Reader
	read int
}

// NewReader wraps r in a line Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Sequence returns a Reader that serves the lines of seq.
func (s Sequence) Reader() *Reader {
	return NewReader(strings.NewReader(s.String()))
}

// Next returns the next raw line. It returns io.EOF once the input is
// exhausted; a final unterminated line is returned before io.EOF.
func (r *Reader) Next() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line != "" {
		r.read++
		return line, nil
	}
	if err == nil {
		return "", io.EOF
	}
	return "", err
}

// Count returns how many lines have been returned so far.
func (r *Reader) Count() int {
	return r.read
}
