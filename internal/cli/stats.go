// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/linepatch/internal/diff"
	"github.com/jeranaias/linepatch/internal/patch"
)

const statsUsage = "linepatch stats <patch>"

// HandleStats handles "stats <patch>".
func HandleStats(env *Env) error {
	p := NewArgParser(env.Args.Raw, "json")
	if err := requirePositional(p, 1, statsUsage); err != nil {
		return err
	}
	jsonMode := env.JSON || p.BoolFlag("json")

	script, err := loadScript(p.Positional(0))
	if err != nil {
		return err
	}
	if err := script.Validate(); err != nil {
		return err
	}

	st := diff.Measure(script, env.Config.Model())
	if jsonMode {
		return NewJSONResponse("stats", st).Write(env.Stdout)
	}

	w := env.Stdout
	fmt.Fprintln(w, TitleStyle.Render(p.Positional(0)))
	fmt.Fprintln(w, RenderField("Instructions:", st.Instructions))
	fmt.Fprintln(w, RenderField("  insert (+):", st.Inserts))
	fmt.Fprintln(w, RenderField("  substitute (=):", st.Substitutes))
	fmt.Fprintln(w, RenderField("  delete (d):", st.Deletes))
	fmt.Fprintln(w, RenderField("  multi-delete (D):", st.MultiDeletes))
	fmt.Fprintln(w, RenderLabel("Lines:")+
		AddedStyle.Render(fmt.Sprintf("+%d", st.LinesAdded))+" "+
		RemovedStyle.Render(fmt.Sprintf("-%d", st.LinesRemoved)))
	fmt.Fprintln(w, RenderField("Cost:", st.Cost))
	return nil
}

// loadScript decodes a whole patch file.
func loadScript(path string) (patch.Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileOpenError{Role: "patch", Path: path, Err: err}
	}
	defer f.Close()
	return patch.Decode(f)
}
