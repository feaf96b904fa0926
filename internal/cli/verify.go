// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/jeranaias/linepatch/internal/diff"
	"github.com/jeranaias/linepatch/internal/lines"
	"github.com/jeranaias/linepatch/internal/patch"
)

const verifyUsage = "linepatch verify <original> <target>"

// HandleVerify handles "verify <original> <target>": it computes a script,
// encodes it, parses the text back, applies it to the original and checks
// that the result is byte-identical to the target.
func HandleVerify(env *Env) error {
	p := NewArgParser(env.Args.Raw, "json")
	if err := requirePositional(p, 2, verifyUsage); err != nil {
		return err
	}
	jsonMode := env.JSON || p.BoolFlag("json")

	original, err := loadLines("original", p.Positional(0))
	if err != nil {
		return err
	}
	target, err := loadLines("target", p.Positional(1))
	if err != nil {
		return err
	}

	res := diff.Compute(original, target, env.Config.Model())
	data := VerifyData{Instructions: len(res.Script), Cost: res.Cost}

	if err := roundTrip(res, original, target, &data); err != nil {
		return err
	}

	if jsonMode {
		return NewJSONResponse("verify", data).Write(env.Stdout)
	}
	fmt.Fprintf(env.Stdout, "%s %d instructions, cost %d, %d patch bytes\n",
		RenderStatus("ok"), data.Instructions, data.Cost, data.PatchBytes)
	return nil
}

// roundTrip fills data and returns ErrVerifyFailed if any step breaks.
func roundTrip(res *diff.Result, original, target lines.Sequence, data *VerifyData) error {
	text, err := patch.Format(res.Script)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrVerifyFailed, err)
	}
	data.PatchBytes = len(text)

	parsed, err := patch.Parse(text)
	if err != nil {
		return fmt.Errorf("%w: re-parse: %v", ErrVerifyFailed, err)
	}

	got, err := patch.Apply(original, parsed)
	if err != nil {
		return fmt.Errorf("%w: apply: %v", ErrVerifyFailed, err)
	}
	if !got.Equal(target) {
		return fmt.Errorf("%w: result differs from target", ErrVerifyFailed)
	}
	data.OK = true
	return nil
}
