// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lines

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Sequence
	}{
		{"empty", "", Sequence{}},
		{"single terminated", "a\n", Sequence{"a\n"}},
		{"single unterminated", "a", Sequence{"a"}},
		{"unterminated tail", "a\nb", Sequence{"a\n", "b"}},
		{"blank lines", "\n\n", Sequence{"\n", "\n"}},
		{"crlf kept", "a\r\nb\r\n", Sequence{"a\r\n", "b\r\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.String())
		})
	}
}

func TestRead_PreservesBytes(t *testing.T) {
	inputs := []string{"", "x", "x\n", "one\ntwo\nthree", "one\n\n\nfour\n"}
	for _, in := range inputs {
		seq, err := Read(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, in, seq.String())
		assert.Equal(t, Split(in), seq)
	}
}

func TestRead_LongLine(t *testing.T) {
	long := strings.Repeat("z", 1<<20) + "\n"
	seq, err := Read(strings.NewReader(long + "tail"))
	require.NoError(t, err)
	require.Equal(t, 2, seq.Len())
	assert.Equal(t, long, seq.At(1))
	assert.Equal(t, "tail", seq.At(2))
}

func TestReader_Next(t *testing.T) {
	r := NewReader(strings.NewReader("a\nb"))

	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a\n", line)

	line, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", line)

	_, err = r.Next()
	assert.True(t, errors.Is(err, io.EOF))
	assert.Equal(t, 2, r.Count())
}

func TestSequence_EqualAndWriteTo(t *testing.T) {
	a := Split("x\ny")
	assert.True(t, a.Equal(Sequence{"x\n", "y"}))
	assert.False(t, a.Equal(Sequence{"x\n", "y\n"}))
	assert.False(t, a.Equal(Sequence{"x\n"}))

	var buf bytes.Buffer
	n, err := a.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, "x\ny", buf.String())
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\n2\n"), 0644))

	seq, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Sequence{"1\n", "2\n"}, seq)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
