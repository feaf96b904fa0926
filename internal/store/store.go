// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound      = errors.New("patch not found")
	ErrAmbiguousID   = errors.New("ambiguous patch id")
	ErrDatabaseError = errors.New("database error")
)

// MinPrefixLen is the shortest ID prefix Get accepts.
const MinPrefixLen = 4

// =============================================================================
// RECORD
// =============================================================================

// Record is one archived patch.
type Record struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	OriginalPath   string    `json:"original_path"`
	TargetPath     string    `json:"target_path"`
	OriginalDigest string    `json:"original_digest"`
	TargetDigest   string    `json:"target_digest"`
	Cost           int       `json:"cost"`
	Instructions   int       `json:"instructions"`
	Patch          string    `json:"patch,omitempty"`
}

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed patch archive.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the archive at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("%w: failed to create schema: %v", ErrDatabaseError, err)
	}
	if _, err := s.db.ExecContext(ctx, InitMetadata); err != nil {
		return fmt.Errorf("%w: failed to initialize metadata: %v", ErrDatabaseError, err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts rec, assigning an ID and creation time when they are unset.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patches (id, created_at, original_path, target_path,
			original_digest, target_digest, cost, instructions, patch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UnixNano(), rec.OriginalPath, rec.TargetPath,
		rec.OriginalDigest, rec.TargetDigest, rec.Cost, rec.Instructions, rec.Patch)
	if err != nil {
		return fmt.Errorf("%w: failed to save patch: %v", ErrDatabaseError, err)
	}
	return nil
}

const selectColumns = `id, created_at, original_path, target_path,
	original_digest, target_digest, cost, instructions, patch`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var created int64
	if err := row.Scan(&rec.ID, &created, &rec.OriginalPath, &rec.TargetPath,
		&rec.OriginalDigest, &rec.TargetDigest, &rec.Cost, &rec.Instructions, &rec.Patch); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(0, created)
	return &rec, nil
}

// Get returns the record whose ID equals id or, failing that, the single
// record whose ID starts with id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	id = strings.ToLower(strings.TrimSpace(id))

	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM patches WHERE id = ?", id))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if len(id) < MinPrefixLen || !isIDPrefix(id) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM patches WHERE id LIKE ? LIMIT 2", id+"%")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var matches []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

// isIDPrefix reports whether p only contains UUID characters, which keeps
// LIKE wildcards out of the query.
func isIDPrefix(p string) bool {
	for _, r := range p {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r == '-') {
			return false
		}
	}
	return true
}

// List returns up to limit records, newest first, without their patch text.
// A limit of zero or less returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, original_path, target_path,
			original_digest, target_digest, cost, instructions, ''
		FROM patches
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return out, nil
}

// Count returns the number of stored patches.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM patches").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// Delete removes the record with the given ID (prefixes are resolved as in
// Get) and returns the full ID that was deleted.
func (s *Store) Delete(ctx context.Context, id string) (string, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM patches WHERE id = ?", rec.ID); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return rec.ID, nil
}

// Prune deletes the oldest records so that at most keep remain. A keep of
// zero disables pruning. It returns the number of records removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM patches WHERE id NOT IN (
			SELECT id FROM patches ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return res.RowsAffected()
}
