// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/linepatch/internal/diff"
	"github.com/jeranaias/linepatch/internal/lines"
	"github.com/jeranaias/linepatch/internal/patch"
	"github.com/jeranaias/linepatch/internal/store"
)

const computeUsage = "linepatch compute <original> <target> [--output FILE] [--save]"

// HandleCompute handles "compute <original> <target>".
//
// Both files are read fully, the cheapest edit script is computed under the
// configured cost model and written in patch format to stdout or --output.
// Two empty inputs are rejected with ErrEmptyInput.
func HandleCompute(ctx context.Context, env *Env) error {
	p := NewArgParser(env.Args.Raw, "save", "json")
	if err := requirePositional(p, 2, computeUsage); err != nil {
		return err
	}
	origPath, targetPath := p.Positional(0), p.Positional(1)
	output := p.FlagAny("output", "o")
	jsonMode := env.JSON || p.BoolFlag("json")

	origData, err := readInput("original", origPath)
	if err != nil {
		return err
	}
	targetData, err := readInput("target", targetPath)
	if err != nil {
		return err
	}
	if len(origData) == 0 && len(targetData) == 0 {
		return ErrEmptyInput
	}

	original := lines.Split(string(origData))
	target := lines.Split(string(targetData))
	costs := env.Config.Model()

	res := diff.Compute(original, target, costs)
	env.Log.Printf("computed %d instructions over %dx%d lines (cost %d)",
		len(res.Script), len(original), len(target), res.Cost)

	text, err := patch.Format(res.Script)
	if err != nil {
		return NewCommandError("compute", "encode", "script could not be encoded", err)
	}

	data := ComputeData{
		Original: origPath,
		Target:   targetPath,
		Patch:    text,
		Stats:    diff.Measure(res.Script, costs),
		Cells:    res.Cells,
		Output:   output,
	}

	if p.BoolFlag("save") {
		rec := &store.Record{
			OriginalPath:   origPath,
			TargetPath:     targetPath,
			OriginalDigest: store.Digest(origData),
			TargetDigest:   store.Digest(targetData),
			Cost:           res.Cost,
			Instructions:   len(res.Script),
			Patch:          text,
		}
		if err := env.savePatch(ctx, rec); err != nil {
			return err
		}
		data.SavedID = rec.ID
	}

	if output != "" || !jsonMode {
		if err := env.writeResult(output, []byte(text)); err != nil {
			return err
		}
	}

	if jsonMode {
		return NewJSONResponse("compute", data).Write(env.Stdout)
	}
	if data.SavedID != "" {
		fmt.Fprintf(env.Stderr, "%s saved as %s\n", SuccessStyle.Render("[OK]"), data.SavedID)
	}
	return nil
}

// savePatch archives rec and prunes the archive to the configured size.
func (e *Env) savePatch(ctx context.Context, rec *store.Record) error {
	st, err := e.openStore(ctx)
	if err != nil {
		return NewCommandError("compute", "save", "cannot open patch archive", err)
	}
	defer st.Close()

	if err := st.Save(ctx, rec); err != nil {
		return NewCommandError("compute", "save", "cannot archive patch", err)
	}
	e.Log.Printf("archived patch %s", rec.ID)

	removed, err := st.Prune(ctx, e.Config.Store.MaxRecords)
	if err != nil {
		return NewCommandError("compute", "save", "cannot prune patch archive", err)
	}
	if removed > 0 {
		e.Log.Printf("pruned %d old patches", removed)
	}
	return nil
}
