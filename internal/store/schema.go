// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// Schema creates the patch archive tables.
const Schema = `
-- Metadata table for schema version
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- One row per computed patch
CREATE TABLE IF NOT EXISTS patches (
    id TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL,      -- Unix nanoseconds
    original_path TEXT NOT NULL,
    target_path TEXT NOT NULL,
    original_digest TEXT NOT NULL,    -- hex BLAKE2b-256
    target_digest TEXT NOT NULL,      -- hex BLAKE2b-256
    cost INTEGER NOT NULL,
    instructions INTEGER NOT NULL,
    patch TEXT NOT NULL               -- encoded edit script
);

CREATE INDEX IF NOT EXISTS idx_patches_created_at ON patches(created_at);
`

// InitMetadata seeds the metadata table.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
`
