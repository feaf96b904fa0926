// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/linepatch/internal/lines"
	"github.com/jeranaias/linepatch/internal/util"
)

// readInput reads a whole input file, reporting failures as FileOpenError.
func readInput(role, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileOpenError{Role: role, Path: path, Err: err}
	}
	return data, nil
}

// loadLines reads an input file as a line sequence.
func loadLines(role, path string) (lines.Sequence, error) {
	seq, err := lines.ReadFile(path)
	if err != nil {
		return nil, &FileOpenError{Role: role, Path: path, Err: err}
	}
	return seq, nil
}

// writeResult sends data to the --output file (atomically) or to stdout.
// Nothing is written until the command has fully succeeded.
func (e *Env) writeResult(output string, data []byte) error {
	if output != "" {
		if err := util.WriteFileAtomic(output, data, 0644); err != nil {
			return NewCommandError(e.Args.Name, "write", output, err)
		}
		e.Log.Printf("wrote %d bytes to %s", len(data), output)
		return nil
	}
	_, err := e.Stdout.Write(data)
	return err
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
