// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"

	"github.com/jeranaias/linepatch/internal/diff"
)

const showUsage = "linepatch show <patch> <original>"

// HandleShow handles "show <patch> <original>": the script is rendered as a
// unified diff against the original, colourised when stdout is a terminal.
func HandleShow(env *Env) error {
	p := NewArgParser(env.Args.Raw, "json")
	if err := requirePositional(p, 2, showUsage); err != nil {
		return err
	}
	jsonMode := env.JSON || p.BoolFlag("json")

	script, err := loadScript(p.Positional(0))
	if err != nil {
		return err
	}
	original, err := loadLines("original", p.Positional(1))
	if err != nil {
		return err
	}

	annotated, err := diff.Annotate(original, script)
	if err != nil {
		return err
	}
	hunks := diff.GroupHunks(annotated, diff.ContextLines)
	unified := diff.FormatUnified(p.Positional(1), hunks)

	if jsonMode {
		return NewJSONResponse("show", ShowData{
			Diff:  unified,
			Hunks: len(hunks),
			Stats: diff.Measure(script, env.Config.Model()),
		}).Write(env.Stdout)
	}

	if env.Color {
		unified = diff.Highlight(unified)
	}
	_, err = io.WriteString(env.Stdout, unified)
	return err
}
