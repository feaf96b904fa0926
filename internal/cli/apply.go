// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/linepatch/internal/lines"
	"github.com/jeranaias/linepatch/internal/patch"
	"github.com/jeranaias/linepatch/internal/store"
	"github.com/jeranaias/linepatch/internal/util"
)

const applyUsage = "linepatch apply <patch|@id> <original> [--output FILE]"

// HandleApply handles "apply <patch> <original>".
//
// Instructions are decoded and applied one at a time while the original is
// read lazily. The result is held back and only written once every
// instruction has been applied, so a malformed patch never leaves a partial
// output file behind. With --output the result is staged next to the
// destination instead of in memory.
func HandleApply(ctx context.Context, env *Env) error {
	p := NewArgParser(env.Args.Raw, "json")
	if err := requirePositional(p, 2, applyUsage); err != nil {
		return err
	}
	patchSrc, origPath := p.Positional(0), p.Positional(1)
	output := p.FlagAny("output", "o")
	jsonMode := env.JSON || p.BoolFlag("json")

	origData, err := readInput("original", origPath)
	if err != nil {
		return err
	}

	patchText, err := env.openPatch(ctx, patchSrc, origData)
	if err != nil {
		return err
	}
	defer patchText.Close()

	// The patched text goes straight into a staged --output file, or into
	// a buffer for stdout. Either way nothing is visible until it succeeds.
	var (
		dst    io.Writer
		result bytes.Buffer
		staged *util.AtomicFile
	)
	if output != "" {
		staged, err = util.CreateAtomic(output, 0644)
		if err != nil {
			return NewCommandError(env.Args.Name, "write", output, err)
		}
		defer staged.Abort()
		dst = staged
	} else {
		dst = &result
	}

	src := lines.NewReader(bytes.NewReader(origData))
	n, written, err := applyStream(patchText, src, dst)
	if err != nil {
		return err
	}
	env.Log.Printf("applied %d instructions: read %d lines, wrote %d lines",
		n, src.Count(), written)

	switch {
	case staged != nil:
		if err := staged.Commit(); err != nil {
			return NewCommandError(env.Args.Name, "write", output, err)
		}
	case !jsonMode:
		if _, err := env.Stdout.Write(result.Bytes()); err != nil {
			return err
		}
	}

	if jsonMode {
		data := ApplyData{
			Patch:        patchSrc,
			Original:     origPath,
			Instructions: n,
			LinesRead:    src.Count(),
			LinesWritten: written,
			Output:       output,
		}
		if output == "" {
			data.Result = result.String()
		}
		return NewJSONResponse("apply", data).Write(env.Stdout)
	}
	return nil
}

// applyStream decodes instructions from r and applies each one as soon as it
// is read. It returns the number of instructions applied and the number of
// lines written to dst.
func applyStream(r io.Reader, src *lines.Reader, dst io.Writer) (int, int, error) {
	dec := patch.NewDecoder(r)
	it := patch.NewInterpreter(src, dst)

	n := 0
	for {
		in, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, it.Written(), err
		}
		if err := it.Step(n, in); err != nil {
			return n, it.Written(), err
		}
		n++
	}
	err := it.Finish()
	return n, it.Written(), err
}

// openPatch returns the patch text named by src. "@id" loads an archived
// patch and checks that original is the file it was computed from.
func (e *Env) openPatch(ctx context.Context, src string, original []byte) (io.ReadCloser, error) {
	if !strings.HasPrefix(src, "@") {
		f, err := os.Open(src)
		if err != nil {
			return nil, &FileOpenError{Role: "patch", Path: src, Err: err}
		}
		return f, nil
	}

	id := strings.TrimPrefix(src, "@")
	st, err := e.openStore(ctx)
	if err != nil {
		return nil, NewCommandError("apply", "load", "cannot open patch archive", err)
	}
	defer st.Close()

	rec, err := lookup(ctx, st, id)
	if err != nil {
		return nil, err
	}

	if digest := store.Digest(original); digest != rec.OriginalDigest {
		return nil, fmt.Errorf("%w: patch %s was computed from %s (digest %s), got digest %s",
			ErrDigestMismatch, rec.ID, rec.OriginalPath,
			store.ShortDigest(rec.OriginalDigest), store.ShortDigest(digest))
	}
	e.Log.Printf("loaded archived patch %s", rec.ID)
	return io.NopCloser(strings.NewReader(rec.Patch)), nil
}
