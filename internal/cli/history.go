// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/linepatch/internal/store"
	"github.com/jeranaias/linepatch/internal/util"
)

const (
	historyUsage = "linepatch history [list [--limit N] | show <id> | delete <id>]"

	// DefaultHistoryLimit is how many entries "history list" prints by default
	DefaultHistoryLimit = 20
)

// HandleHistory handles "history [list|show|delete]".
func HandleHistory(ctx context.Context, env *Env) error {
	p := NewArgParser(env.Args.Raw, "json")
	jsonMode := env.JSON || p.BoolFlag("json")

	st, err := env.openStore(ctx)
	if err != nil {
		return NewCommandError("history", "open", "cannot open patch archive", err)
	}
	defer st.Close()

	switch sub := strings.ToLower(p.Subcommand()); sub {
	case "", "list", "ls":
		limit := DefaultHistoryLimit
		if v := p.Flag("limit"); v != "" {
			if limit, err = ParseIntWithValidation(v, "limit"); err != nil {
				return NewValidationErrorWithExample("limit", v, err.Error(), historyUsage)
			}
		}
		return historyList(ctx, env, st, limit, jsonMode)

	case "show", "delete", "rm":
		id := p.Positional(1)
		if id == "" {
			return ErrMissingArgument("id", historyUsage)
		}
		if sub == "show" {
			return historyShow(ctx, env, st, id, jsonMode)
		}
		return historyDelete(ctx, env, st, id, jsonMode)

	default:
		return NewValidationErrorWithExample("subcommand", sub, "unknown history subcommand", historyUsage)
	}
}

func historyList(ctx context.Context, env *Env, st *store.Store, limit int, jsonMode bool) error {
	records, err := st.List(ctx, limit)
	if err != nil {
		return NewCommandError("history", "list", "cannot read patch archive", err)
	}

	if jsonMode {
		if records == nil {
			records = []*store.Record{}
		}
		return NewJSONResponse("history", records).Write(env.Stdout)
	}

	if len(records) == 0 {
		fmt.Fprintln(env.Stdout, DimStyle.Render("No saved patches. Use 'linepatch compute --save' to archive one."))
		return nil
	}
	renderHistoryTable(env.Stdout, records, terminalWidth(env.Stdout))
	return nil
}

// renderHistoryTable prints one row per record. The two path columns share
// whatever width is left after the fixed columns.
func renderHistoryTable(w io.Writer, records []*store.Record, width int) {
	const (
		idWidth   = 8
		timeWidth = 16
		numWidth  = 6
	)
	fixed := idWidth + timeWidth + 2*numWidth + 5 + 4 // columns, gaps, arrow
	pathWidth := max((width-fixed)/2, 10)

	header := fmt.Sprintf("%s %s %s %s %s -> %s",
		util.PadRight("ID", idWidth),
		util.PadRight("CREATED", timeWidth),
		util.PadRight("COST", numWidth),
		util.PadRight("INSTR", numWidth),
		util.PadRight("ORIGINAL", pathWidth),
		"TARGET")
	fmt.Fprintln(w, TitleStyle.Render(header))

	for _, rec := range records {
		fmt.Fprintf(w, "%s %s %s %s %s -> %s\n",
			ValueStyle.Render(util.PadRight(rec.ID[:min(len(rec.ID), idWidth)], idWidth)),
			DimStyle.Render(util.PadRight(rec.CreatedAt.Local().Format("2006-01-02 15:04"), timeWidth)),
			util.PadRight(fmt.Sprint(rec.Cost), numWidth),
			util.PadRight(fmt.Sprint(rec.Instructions), numWidth),
			util.PadRight(util.TruncateLeft(rec.OriginalPath, pathWidth), pathWidth),
			util.TruncateLeft(rec.TargetPath, pathWidth))
	}
}

func historyShow(ctx context.Context, env *Env, st *store.Store, id string, jsonMode bool) error {
	rec, err := lookup(ctx, st, id)
	if err != nil {
		return err
	}

	if jsonMode {
		return NewJSONResponse("history", rec).Write(env.Stdout)
	}

	// Metadata on stderr keeps stdout a valid patch: history show ID > x.lp
	fmt.Fprintln(env.Stderr, RenderField("ID:", rec.ID))
	fmt.Fprintln(env.Stderr, RenderField("Created:", rec.CreatedAt.Local().Format("2006-01-02 15:04:05")))
	fmt.Fprintln(env.Stderr, RenderField("Original:", rec.OriginalPath+" ("+store.ShortDigest(rec.OriginalDigest)+")"))
	fmt.Fprintln(env.Stderr, RenderField("Target:", rec.TargetPath+" ("+store.ShortDigest(rec.TargetDigest)+")"))
	fmt.Fprintln(env.Stderr, RenderField("Cost:", rec.Cost))
	_, err = io.WriteString(env.Stdout, rec.Patch)
	return err
}

func historyDelete(ctx context.Context, env *Env, st *store.Store, id string, jsonMode bool) error {
	if _, err := lookup(ctx, st, id); err != nil {
		return err
	}
	deleted, err := st.Delete(ctx, id)
	if err != nil {
		return NewCommandError("history", "delete", id, err)
	}

	if jsonMode {
		return NewJSONResponse("history", map[string]string{"deleted": deleted}).Write(env.Stdout)
	}
	fmt.Fprintf(env.Stdout, "%s deleted %s\n", RenderStatus("ok"), deleted)
	return nil
}

// lookup resolves id, mapping archive errors to CLI error types.
func lookup(ctx context.Context, st *store.Store, id string) (*store.Record, error) {
	rec, err := st.Get(ctx, id)
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, store.ErrNotFound):
		return nil, NewNotFoundError("patch", id)
	case errors.Is(err, store.ErrAmbiguousID):
		return nil, NewValidationError("patch id", id, "matches more than one patch")
	default:
		return nil, NewCommandError("history", "lookup", id, err)
	}
}
