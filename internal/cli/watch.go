// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/linepatch/internal/diff"
	"github.com/jeranaias/linepatch/internal/patch"
	"github.com/jeranaias/linepatch/internal/watch"
)

const watchUsage = "linepatch watch <original> <target> [--output FILE]"

// HandleWatch handles "watch <original> <target>". The script is computed
// once immediately and again after every debounced change to either file,
// until ctx is cancelled (Ctrl-C). Errors during a recompute are reported
// and watching continues.
func HandleWatch(ctx context.Context, env *Env) error {
	p := NewArgParser(env.Args.Raw)
	if err := requirePositional(p, 2, watchUsage); err != nil {
		return err
	}
	origPath, targetPath := p.Positional(0), p.Positional(1)
	output := p.FlagAny("output", "o")

	w, err := watch.New([]string{origPath, targetPath}, env.Config.Watch.Debounce())
	if err != nil {
		return NewCommandError("watch", "start", "cannot watch files", err)
	}
	defer w.Close()
	w.Errors = func(err error) {
		env.Log.Printf("watch error: %v", err)
	}

	recompute := func(ctx context.Context, changed []string) {
		if len(changed) > 0 {
			env.Log.Printf("changed: %v", changed)
		}
		if err := env.watchOnce(origPath, targetPath, output); err != nil {
			DisplayError(env.Stderr, err, false, "watch")
		}
	}

	recompute(ctx, nil)
	fmt.Fprintf(env.Stderr, "%s watching %s and %s (Ctrl-C to stop)\n",
		DimStyle.Render("[WATCH]"), origPath, targetPath)

	return w.Run(ctx, recompute)
}

// watchOnce performs one compute cycle for the watch command.
func (e *Env) watchOnce(origPath, targetPath, output string) error {
	original, err := loadLines("original", origPath)
	if err != nil {
		return err
	}
	target, err := loadLines("target", targetPath)
	if err != nil {
		return err
	}

	costs := e.Config.Model()
	res := diff.Compute(original, target, costs)
	text, err := patch.Format(res.Script)
	if err != nil {
		return NewCommandError("watch", "encode", "script could not be encoded", err)
	}

	stats := diff.Measure(res.Script, costs)
	fmt.Fprintf(e.Stderr, "%s %s\n", DimStyle.Render(time.Now().Format("15:04:05")), stats.Summary())

	if output != "" {
		return e.writeResult(output, []byte(text))
	}
	fmt.Fprintln(e.Stdout, RenderSeparator(40))
	return e.writeResult("", []byte(text))
}
