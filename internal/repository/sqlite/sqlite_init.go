// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	_ "modernc.org/sqlite"

	"github.com/tfctl/lorectl/internal/repository/codec"
)

// SQLiteOption configures an SQLite gateway before the database is opened.
type SQLiteOption = func(ctx context.Context, gw *SQLite) error

// NewSQLite opens (creating if needed) the database and its schema.
func NewSQLite(ctx context.Context, options ...SQLiteOption) (*SQLite, error) {
	options = append([]SQLiteOption{WithDefaults()}, options...)

	gw := &SQLite{}
	for _, opt := range options {
		if err := opt(ctx, gw); err != nil {
			return nil, err
		}
	}

	if gw.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(gw.Path), 0o755); err != nil { //nolint:mnd
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", gw.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA busy_timeout = 10000", "PRAGMA journal_mode = WAL", Schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", strings.Fields(stmt)[0], err)
		}
	}
	log.Debugf("sqlite: opened %s", gw.Path)

	gw.db = db
	return gw, nil
}

func WithDefaults() SQLiteOption {
	return func(ctx context.Context, gw *SQLite) error {
		gw.Path = "lorectl.db"
		gw.Codec = &codec.Codec{}
		return nil
	}
}

// FromURL reads the database path from sqlite://path. Both sqlite:///abs.db
// and sqlite://rel.db are accepted.
func FromURL(spec string) SQLiteOption {
	return func(ctx context.Context, gw *SQLite) error {
		p, ok := strings.CutPrefix(spec, "sqlite://")
		if !ok || p == "" {
			return fmt.Errorf("invalid sqlite repository %q", spec)
		}
		gw.Path = p
		return nil
	}
}

func WithPath(p string) SQLiteOption {
	return func(ctx context.Context, gw *SQLite) error {
		gw.Path = p
		return nil
	}
}

func WithCodec(c *codec.Codec) SQLiteOption {
	return func(ctx context.Context, gw *SQLite) error {
		if c != nil {
			gw.Codec = c
		}
		return nil
	}
}
