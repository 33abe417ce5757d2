// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/lorectl/internal/repository/codec"
)

func openTest(t *testing.T, options ...SQLiteOption) *SQLite {
	t.Helper()
	gw, err := NewSQLite(context.Background(), append([]SQLiteOption{WithPath(":memory:")}, options...)...)
	require.NoError(t, err)
	t.Cleanup(func() { gw.Close() })
	return gw
}

func TestSQLite_PutGetList(t *testing.T) {
	gw := openTest(t)
	ctx := context.Background()

	names, err := gw.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, gw.Put(ctx, "zeta", []any{map[string]any{"comment": "Intro", "content": "Hello world", "order": 3}}))
	require.NoError(t, gw.Put(ctx, "alpha", map[string]any{"entries": []any{}}))
	// Replacing keeps the list position.
	require.NoError(t, gw.Put(ctx, "zeta", []any{map[string]any{"comment": "Intro", "content": "Hello World!"}}))

	names, err = gw.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, names)

	raw, err := gw.Get(ctx, "zeta")
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"comment": "Intro", "content": "Hello World!"}}, raw)

	_, err = gw.Get(ctx, "missing")
	assert.ErrorIs(t, err, codec.ErrNotFound)
}

func TestSQLite_NumbersSurvive(t *testing.T) {
	gw := openTest(t)
	ctx := context.Background()

	require.NoError(t, gw.Put(ctx, "n", []any{map[string]any{"uid": 12345678901234}}))
	raw, err := gw.Get(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901234"), raw.([]any)[0].(map[string]any)["uid"])
}

func TestSQLite_Stat(t *testing.T) {
	gw := openTest(t)
	ctx := context.Background()
	require.NoError(t, gw.Put(ctx, "v1", []any{}))

	info, err := gw.Stat(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "v1", info.Name)
	assert.Positive(t, info.Size)
	assert.False(t, info.ModTime.IsZero())
	assert.Equal(t, "sqlite://:memory:", info.Source)

	_, err = gw.Stat(ctx, "v2")
	assert.ErrorIs(t, err, codec.ErrNotFound)
}

func TestSQLite_Sealed(t *testing.T) {
	c := &codec.Codec{Seal: true, Passphrase: func() (string, error) { return "pw", nil }}
	gw := openTest(t, WithCodec(c))
	ctx := context.Background()

	require.NoError(t, gw.Put(ctx, "locked", []any{map[string]any{"comment": "Secret"}}))

	var body string
	require.NoError(t, gw.db.QueryRow(`SELECT body FROM collections WHERE name = 'locked'`).Scan(&body))
	assert.Contains(t, body, "encrypted_data")
	assert.NotContains(t, body, "Secret")

	raw, err := gw.Get(ctx, "locked")
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"comment": "Secret"}}, raw)
}

func TestSQLite_FileReopen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "lore.db")
	ctx := context.Background()

	gw, err := NewSQLite(ctx, FromURL("sqlite://"+p))
	require.NoError(t, err)
	require.NoError(t, gw.Put(ctx, "v1", []any{}))
	require.NoError(t, gw.Close())

	gw, err = NewSQLite(ctx, FromURL("sqlite://"+p))
	require.NoError(t, err)
	defer gw.Close()

	names, err := gw.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, names)
}

func TestFromURL_Invalid(t *testing.T) {
	_, err := NewSQLite(context.Background(), FromURL("sqlite://"))
	assert.Error(t, err)
	_, err = NewSQLite(context.Background(), FromURL("/tmp/x.db"))
	assert.Error(t, err)
}
