// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrFileClosed is returned by AtomicFile methods after Commit or Abort.
var ErrFileClosed = errors.New("atomic file already committed or aborted")

// AtomicFile stages writes in a hidden temp file next to the destination.
// The destination only changes on Commit; Abort (or a failed Commit) removes
// the temp file and leaves any existing destination untouched.
type AtomicFile struct {
	f    *os.File
	dest string
	perm os.FileMode
	done bool
}

// CreateAtomic starts an atomic write to path. Missing parent directories
// are created with mode 0755.
func CreateAtomic(path string, perm os.FileMode) (*AtomicFile, error) {
	dest, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return nil, fmt.Errorf("cannot write %s: is a directory", path)
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}

	// Same directory keeps the rename on one filesystem
	f, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(dest)+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return &AtomicFile{f: f, dest: dest, perm: perm}, nil
}

// Write appends to the staged content.
func (a *AtomicFile) Write(p []byte) (int, error) {
	if a.done {
		return 0, ErrFileClosed
	}
	return a.f.Write(p)
}

// Commit syncs the staged content and renames it over the destination.
func (a *AtomicFile) Commit() error {
	if a.done {
		return ErrFileClosed
	}
	a.done = true

	err := a.f.Sync()
	if err != nil {
		err = fmt.Errorf("failed to sync data to disk: %w", err)
	}
	// Close before rename (required on Windows)
	if cerr := a.f.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close temp file: %w", cerr)
	}
	if err == nil {
		if cerr := os.Chmod(a.f.Name(), a.perm); cerr != nil {
			err = fmt.Errorf("failed to set file permissions: %w", cerr)
		}
	}
	if err == nil {
		if rerr := os.Rename(a.f.Name(), a.dest); rerr != nil {
			err = fmt.Errorf("failed to rename temp file: %w", rerr)
		}
	}
	if err != nil {
		os.Remove(a.f.Name())
	}
	return err
}

// Abort discards the staged content. It is a no-op after Commit, so it can
// be deferred unconditionally.
func (a *AtomicFile) Abort() {
	if a.done {
		return
	}
	a.done = true
	a.f.Close()
	os.Remove(a.f.Name())
}

// WriteFileAtomic writes data to path in one step through an AtomicFile.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	a, err := CreateAtomic(path, perm)
	if err != nil {
		return err
	}
	defer a.Abort()

	if _, err := a.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	return a.Commit()
}
