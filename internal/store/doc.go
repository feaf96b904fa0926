// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store archives computed patches in a local SQLite database.
//
// Every record keeps the encoded script together with the paths and BLAKE2b
// digests of the files it was computed from, so a stored patch can later be
// re-applied with a guarantee that it is being applied to the same original.
//
// # Usage
//
//	st, err := store.Open(ctx, path)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rec := &store.Record{OriginalPath: a, TargetPath: b, Patch: text}
//	if err := st.Save(ctx, rec); err != nil {
//	    return err
//	}
//	fmt.Println(rec.ID)
//
// The database uses the pure Go modernc.org/sqlite driver, so no cgo is
// required.
package store
