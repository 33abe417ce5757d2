// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/lorectl/internal/config"
	"github.com/tfctl/lorectl/internal/inspector"
)

//go:embed testdata
var testDataFS embed.FS

// newRepo copies the v1 and v2 collections into a fresh local repository.
func newRepo(t *testing.T) string {
	t.Helper()

	t.Setenv(config.FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	saved := config.Config
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = saved })

	dir := t.TempDir()
	for _, name := range []string{"v1.json", "v2.json"} {
		data, err := testDataFS.ReadFile("testdata/" + name)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

// run executes lorectl with args and returns what it wrote.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	args = append([]string{"lorectl"}, args...)
	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	err = app.Run(context.Background(), args)
	return buf.String(), err
}

func rowsOf(t *testing.T, out string) []map[string]any {
	t.Helper()
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	return rows
}

func TestLq(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "lq", repo, "-o", "json", "-a", "source")
	require.NoError(t, err)

	rows := rowsOf(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "v1", rows[0]["name"])
	assert.EqualValues(t, 2, rows[0]["entries"])
	assert.Equal(t, "v2", rows[1]["name"])
	assert.Equal(t, filepath.Join(repo, "v2.json"), rows[1]["source"])
	assert.NotContains(t, rows[0], "version")
}

func TestLq_Snapshot(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "lq", repo+"::v2", "-o", "json")
	require.NoError(t, err)

	rows := rowsOf(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "v2", rows[0]["name"])
	assert.EqualValues(t, 2, rows[0]["entries"])
}

func TestLq_RepoFlagWins(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "lq", t.TempDir(), "--repo", repo, "-o", "json")
	require.NoError(t, err)
	assert.Len(t, rowsOf(t, out), 2)
}

func TestDq(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "dq", repo, "v1", "v2", "-o", "json")
	require.NoError(t, err)

	rows := rowsOf(t, out)
	require.Len(t, rows, 3)

	assert.Equal(t, "changed", rows[0]["status"])
	assert.Equal(t, "Intro", rows[0]["signature"])
	assert.Equal(t, "Hello world", rows[0]["before"])
	assert.Equal(t, "Hello World!", rows[0]["after"])

	assert.Equal(t, "removed", rows[1]["status"])
	assert.Equal(t, "Gate", rows[1]["signature"])

	assert.Equal(t, "added", rows[2]["status"])
	assert.Equal(t, "Stats", rows[2]["signature"])
}

func TestDq_Status(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "dq", repo, "v1", "v2", "-o", "json", "--status", "added,removed")
	require.NoError(t, err)

	rows := rowsOf(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "Gate", rows[0]["signature"])
	assert.Equal(t, "Stats", rows[1]["signature"])

	_, err = run(t, "dq", repo, "v1", "v2", "--status", "moved")
	assert.Error(t, err)
}

func TestDq_Options(t *testing.T) {
	repo := newRepo(t)

	// Case and whitespace folding do not hide the added "!".
	out, err := run(t, "dq", repo, "v1", "v2", "-o", "json", "-i", "-w", "--status", "changed")
	require.NoError(t, err)
	assert.Len(t, rowsOf(t, out), 1)
}

func TestDq_Summary(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "dq", repo, "v1", "v2", "--summary", "-o", "json")
	require.NoError(t, err)

	rows := rowsOf(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "v1", rows[0]["a"])
	assert.Equal(t, "v2", rows[0]["b"])
	assert.EqualValues(t, 1, rows[0]["added"])
	assert.EqualValues(t, 1, rows[0]["removed"])
	assert.EqualValues(t, 1, rows[0]["changed"])
	assert.EqualValues(t, 0, rows[0]["same"])
}

func TestDq_MissingSnapshotIsEmpty(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "dq", repo, "v1", "nope", "--summary", "-o", "json", "-a", "missing")
	require.NoError(t, err)

	rows := rowsOf(t, out)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 2, rows[0]["removed"])
	assert.EqualValues(t, 0, rows[0]["added"])
	assert.Equal(t, "nope", rows[0]["missing"])
}

func TestDq_Text(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "dq", repo, "v1", "v2")
	require.NoError(t, err)
	assert.Contains(t, out, "v1 -> v2")
	assert.Contains(t, out, "Intro")
	assert.Contains(t, out, "1 added, 1 removed, 1 changed, 0 same")
}

func TestDq_NeedsNames(t *testing.T) {
	repo := newRepo(t)

	_, err := run(t, "dq", repo, "v1")
	assert.ErrorContains(t, err, "two snapshot names")
}

func TestEq_Format(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "eq", repo, "v1", "v2", "Intro")
	require.NoError(t, err)
	assert.Contains(t, out, "Intro  [changed]")
	assert.Contains(t, out, "A: v1")
	assert.Contains(t, out, "B: v2")
	assert.Contains(t, out, "Hello World!")
}

func TestEq_Rows(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "eq", repo, "v1", "v2", "Gate", "-o", "json")
	require.NoError(t, err)

	rows := rowsOf(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0]["side"])
	assert.Equal(t, "v1", rows[0]["snapshot"])
	assert.Equal(t, "removed", rows[0]["status"])
	assert.Equal(t, "shut", rows[0]["preview"])
	assert.Equal(t, "b", rows[1]["side"])
	assert.Equal(t, "", rows[1]["label"])
}

func TestEq_Drill(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "eq", repo, "v1", "v2", "Stats", "--drill", "content.tags[1]")
	require.NoError(t, err)
	assert.Equal(t, "\"y\"\n", out)

	_, err = run(t, "eq", repo, "v1", "v2", "Stats", "--drill", "content", "--side", "a")
	assert.Error(t, err)

	_, err = run(t, "eq", repo, "v1", "v2", "Stats", "--drill", "content", "--side", "c")
	assert.Error(t, err)
}

func TestEq_Expr(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "eq", repo, "v1", "v2", "Intro", "--expr", "status")
	require.NoError(t, err)
	assert.Equal(t, "changed\n", out)

	out, err = run(t, "eq", repo, "v1", "v2", "Stats", "-e", "b.content.weight * 2")
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)
}

func TestEq_Content(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "eq", repo, "v1", "v2", "Intro", "--content")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello World!")
}

func TestEq_NoEntry(t *testing.T) {
	repo := newRepo(t)

	_, err := run(t, "eq", repo, "v1", "v2", "Nobody")
	assert.ErrorIs(t, err, inspector.ErrNoEntry)

	_, err = run(t, "eq", repo, "v1", "v2", "Nobody", "--content")
	assert.ErrorIs(t, err, inspector.ErrNoEntry)
}

func TestEq_NeedsSignature(t *testing.T) {
	repo := newRepo(t)

	_, err := run(t, "eq", repo, "v1", "v2")
	assert.ErrorContains(t, err, "needs 3 operands")
}

func TestPut(t *testing.T) {
	repo := newRepo(t)

	file := filepath.Join(t.TempDir(), "put.yaml")
	data, err := testDataFS.ReadFile("testdata/put.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, data, 0o644))

	out, err := run(t, "put", repo, "v3", file)
	require.NoError(t, err)
	assert.Equal(t, "Stored v3 (1 entries) in "+repo+"\n", out)
	assert.FileExists(t, filepath.Join(repo, "v3.json"))

	out, err = run(t, "dq", repo, "v2", "v3", "--summary", "-o", "json")
	require.NoError(t, err)
	rows := rowsOf(t, out)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0]["added"])
	assert.EqualValues(t, 2, rows[0]["removed"])

	_, err = run(t, "put", repo, "v4")
	assert.ErrorContains(t, err, "NAME and FILE")
}

func TestSchema(t *testing.T) {
	repo := newRepo(t)

	out, err := run(t, "dq", repo, "--schema")
	require.NoError(t, err)
	assert.Contains(t, out, "signature")
	assert.Contains(t, out, "before")

	_, err = run(t, "dq", repo, "--schema", "-o", "raw")
	assert.Error(t, err)
}

func TestOutputValidation(t *testing.T) {
	repo := newRepo(t)

	_, err := run(t, "lq", repo, "-o", "xml")
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	newRepo(t)

	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _lorectl lorectl")

	out, err = run(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "compdef _lorectl lorectl")
}
