// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"

	"github.com/tfctl/lorectl/internal/repository/codec"
)

// Schema creates the collections table. Bodies are stored in the format named
// by the format column.
const Schema = `CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	format     TEXT NOT NULL DEFAULT '.json',
	body       BLOB NOT NULL,
	seq        INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLite is a database of named collections.
type SQLite struct {
	Path  string
	Codec *codec.Codec

	db *sql.DB
}

// List returns collection names in insertion order.
func (gw *SQLite) List(ctx context.Context) ([]string, error) {
	rows, err := gw.db.QueryContext(ctx, `SELECT name FROM collections ORDER BY seq, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan collection name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Get decodes the named collection.
func (gw *SQLite) Get(ctx context.Context, name string) (any, error) {
	var (
		format string
		body   []byte
	)
	err := gw.db.QueryRowContext(ctx,
		`SELECT format, body FROM collections WHERE name = ?`, name).Scan(&format, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s in %s: %w", name, gw, codec.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}

	raw, err := gw.Codec.Decode(format, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return raw, nil
}

// Put stores raw under name, replacing any previous body. A replaced
// collection keeps its list position.
func (gw *SQLite) Put(ctx context.Context, name string, raw any) error {
	body, err := gw.Codec.Encode(".json", raw)
	if err != nil {
		return err
	}

	_, err = gw.db.ExecContext(ctx, `
		INSERT INTO collections (name, format, body, seq, updated_at)
		VALUES (?, '.json', ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM collections), ?)
		ON CONFLICT(name) DO UPDATE SET
			format = excluded.format,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		name, body, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to store collection: %w", err)
	}
	log.Debugf("sqlite: stored %s (%d bytes)", name, len(body))
	return nil
}

// Stat describes the named collection.
func (gw *SQLite) Stat(ctx context.Context, name string) (codec.Info, error) {
	var (
		size    int64
		updated int64
	)
	err := gw.db.QueryRowContext(ctx,
		`SELECT length(body), updated_at FROM collections WHERE name = ?`, name).Scan(&size, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return codec.Info{}, fmt.Errorf("%s in %s: %w", name, gw, codec.ErrNotFound)
	}
	if err != nil {
		return codec.Info{}, fmt.Errorf("failed to stat collection: %w", err)
	}
	return codec.Info{
		Name:    name,
		Source:  gw.String(),
		Size:    size,
		ModTime: time.Unix(0, updated),
	}, nil
}

// Close releases the database.
func (gw *SQLite) Close() error {
	return gw.db.Close()
}

func (gw *SQLite) String() string {
	return "sqlite://" + gw.Path
}
