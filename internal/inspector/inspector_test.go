// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package inspector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/lorectl/internal/repository"
	"github.com/tfctl/lorectl/internal/snapshot"
	"github.com/tfctl/lorectl/internal/textdiff"
)

// fakeGateway serves raw collections from memory.
type fakeGateway struct {
	mu          sync.Mutex
	collections map[string]any
	err         error
}

func (f *fakeGateway) List(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.collections))
	for k := range f.collections {
		names = append(names, k)
	}
	return names, nil
}

func (f *fakeGateway) Get(_ context.Context, name string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	raw, ok := f.collections[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, repository.ErrNotFound)
	}
	return raw, nil
}

func (f *fakeGateway) Put(_ context.Context, name string, raw any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[name] = raw
	return nil
}

func (f *fakeGateway) String() string { return "fake" }

func (f *fakeGateway) set(name string, raw any) {
	_ = f.Put(context.Background(), name, raw)
}

func (f *fakeGateway) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func records(pairs ...string) []any {
	out := []any{}
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, map[string]any{"comment": pairs[i], "content": pairs[i+1]})
	}
	return out
}

func newFake() *fakeGateway {
	return &fakeGateway{collections: map[string]any{
		"v1": records("Intro", "Hello world", "Gate", "shut"),
		"v2": records("Intro", "Hello World!", "Stats", `{"weight":3,"tags":["x","y"]}`),
	}}
}

func ptr(s string) *string { return &s }

func TestParseQuery(t *testing.T) {
	tests := []struct {
		in   string
		want Query
		str  string
	}{
		{"Intro", Query{Key: ptr("Intro")}, "Intro|*|*"},
		{"Intro|lore", Query{Key: ptr("Intro"), Category: ptr("lore")}, "Intro|lore|*"},
		{"Intro|*|Ada", Query{Key: ptr("Intro"), Character: ptr("Ada")}, "Intro|*|Ada"},
		{"*|lore|", Query{Category: ptr("lore"), Character: ptr("")}, "*|lore|"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q := ParseQuery(tt.in)
			assert.Equal(t, tt.want, q)
			assert.Equal(t, tt.str, q.String())
		})
	}
}

func TestQuery_Matches(t *testing.T) {
	e := snapshot.Entry{Label: "Intro", Category: "lore"}

	assert.True(t, ParseQuery("Intro").Matches(e))
	assert.True(t, ParseQuery("*|lore").Matches(e))
	assert.True(t, ParseQuery("Intro|lore|").Matches(e))
	assert.False(t, ParseQuery("Intro|other").Matches(e))
	assert.False(t, ParseQuery("Intro|lore|Ada").Matches(e))
	assert.True(t, ForSignature(e.Signature()).Matches(e))
}

func TestInspect(t *testing.T) {
	a := snapshot.Snapshot{Name: "A", Entries: []snapshot.Entry{
		{Label: "Intro", Key: "Intro", Value: "one", Raw: "one"},
		{Label: "Dup", Key: "Dup", Value: "first"},
		{Label: "Dup", Key: "Dup", Value: "second", Extra: map[string]any{"order": 1}},
	}}
	b := snapshot.Snapshot{Name: "B", Entries: []snapshot.Entry{
		{Label: "Intro", Key: "Intro", Value: "two", Raw: "two"},
		{Label: "Only", Key: "Only", Value: "b", Category: "misc"},
	}}

	tests := []struct {
		name   string
		query  string
		status snapshot.Status
		aFound bool
		bFound bool
		sig    string
	}{
		{"changed", "Intro", snapshot.StatusChanged, true, true, "Intro"},
		{"removed", "Dup", snapshot.StatusRemoved, true, false, "Dup"},
		{"added via wildcard", "*|misc", snapshot.StatusAdded, false, true, "Only|misc"},
		{"not found", "Nope|x", "", false, false, "Nope|x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := Inspect(a, b, ParseQuery(tt.query))
			assert.Equal(t, tt.status, ins.Status())
			assert.Equal(t, tt.aFound, ins.A.Found)
			assert.Equal(t, tt.bFound, ins.B.Found)
			assert.Equal(t, tt.sig, ins.Signature.String())
			assert.Equal(t, "A", ins.AName)
			assert.Equal(t, "B", ins.BName)
		})
	}

	ins := Inspect(a, b, ParseQuery("Dup"))
	assert.Equal(t, "second", ins.A.Entry.Value, "last duplicate wins")
	assert.Equal(t, map[string]any{"order": 1}, ins.A.Extra)
	assert.Equal(t, "Dup", ins.A.Fields["signature"])
}

func TestInspect_SidesMatchedIndependently(t *testing.T) {
	a := snapshot.Snapshot{Name: "A", Entries: []snapshot.Entry{
		{Label: "Gate", Key: "Gate", Category: "c1", Value: "shut"},
		{Label: "Ward", Key: "Ward", Category: "c1", Character: "Ada", Value: "old"},
		{Label: "Ward", Key: "Ward", Category: "c1", Character: "Bo", Value: "older"},
	}}
	b := snapshot.Snapshot{Name: "B", Entries: []snapshot.Entry{
		{Label: "Gate", Key: "Gate", Category: "c2", Value: "open"},
		{Label: "Ward", Key: "Ward", Category: "c3", Value: "new"},
	}}

	tests := []struct {
		name  string
		query string
		aCat  string
		bCat  string
		aVal  string
		bVal  string
		sig   string
	}{
		{"key only", "Gate", "c1", "c2", "shut", "open", "Gate|c1"},
		{"wildcard category", "Gate|*", "c1", "c2", "shut", "open", "Gate|c1"},
		{"last match per side", "Ward", "c1", "c3", "older", "new", "Ward|c1|Bo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := Inspect(a, b, ParseQuery(tt.query))
			require.True(t, ins.A.Found)
			require.True(t, ins.B.Found)
			assert.Equal(t, tt.aCat, ins.A.Entry.Category)
			assert.Equal(t, tt.bCat, ins.B.Entry.Category)
			assert.Equal(t, tt.aVal, ins.A.Entry.Value)
			assert.Equal(t, tt.bVal, ins.B.Entry.Value)
			assert.Equal(t, tt.sig, ins.Signature.String())
			assert.Equal(t, snapshot.StatusChanged, ins.Status())
		})
	}

	ins := Inspect(a, b, ParseQuery("Gate|c2"))
	assert.False(t, ins.A.Found)
	assert.True(t, ins.B.Found)
	assert.Equal(t, "Gate|c2", ins.Signature.String())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", Preview("abc", 3))
	assert.Equal(t, "ab"+Ellipsis, Preview("abc", 2))
	assert.Equal(t, "äö"+Ellipsis, Preview("äöü", 2))
	assert.Equal(t, "abc", Preview("abc", 0))

	long := strings.Repeat("x", DefaultPreview+10)
	a := snapshot.Snapshot{Name: "A", Entries: []snapshot.Entry{{Label: "L", Value: long, Raw: long}}}

	ins := Inspect(a, snapshot.Snapshot{Name: "B"}, ParseQuery("L"))
	assert.Equal(t, strings.Repeat("x", DefaultPreview)+Ellipsis, ins.A.Preview)

	ins = Inspect(a, snapshot.Snapshot{Name: "B"}, ParseQuery("L"), WithPreview(5))
	assert.Equal(t, "xxxxx"+Ellipsis, ins.A.Preview)
}

func TestJSONLike(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`{"a":1}`, true},
		{`  [1, 2]  `, true},
		{`{"a":`, false},
		{`"string"`, false},
		{`42`, false},
		{``, false},
		{`plain text`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JSONLike(tt.in), tt.in)
	}
}

func TestInspector_Refresh(t *testing.T) {
	ctx := context.Background()
	gw := newFake()

	in := New(ctx, gw, "v1", "v2", ParseQuery("Intro"), snapshot.Options{}, 0)
	require.Equal(t, snapshot.StatusChanged, in.Current().Status())

	gw.set("v2", records("Intro", "Hello world"))
	ins, err := in.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot.StatusSame, ins.Status())
	assert.Equal(t, ins, in.Current())
}

func TestInspector_RefreshUnavailable(t *testing.T) {
	ctx := context.Background()
	gw := newFake()

	in := New(ctx, gw, "v1", "v2", ParseQuery("Intro"), snapshot.Options{}, 0)
	before := in.Current()
	a, b := in.Snapshots()

	gw.fail(errors.New("network down"))
	ins, err := in.Refresh(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshUnavailable)
	assert.Contains(t, err.Error(), "network down")
	assert.Equal(t, before, ins)
	assert.Equal(t, before, in.Current())

	a2, b2 := in.Snapshots()
	assert.Equal(t, a, a2)
	assert.Equal(t, b, b2)
}

func TestInspector_RefreshDeletedCollection(t *testing.T) {
	ctx := context.Background()
	gw := newFake()

	in := New(ctx, gw, "v1", "v2", ParseQuery("Intro"), snapshot.Options{}, 0)

	gw.mu.Lock()
	delete(gw.collections, "v2")
	gw.mu.Unlock()

	ins, err := in.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot.StatusChanged, ins.Status())
	assert.True(t, ins.B.Found)
	assert.Equal(t, "Hello World!", ins.B.Entry.Value)

	_, b := in.Snapshots()
	assert.True(t, b.Meta.Missing)
	assert.Empty(t, b.Entries)
}

func TestInspector_RefreshKeepsUnmatchedSide(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		a      []any
		b      []any
		aValue string
		bValue string
	}{
		{
			name:   "b no longer holds entry",
			a:      records("Intro", "Hello again"),
			b:      records("Stats", "{}"),
			aValue: "Hello again",
			bValue: "Hello World!",
		},
		{
			name:   "a no longer holds entry",
			a:      records("Gate", "open"),
			b:      records("Intro", "Hi"),
			aValue: "Hello world",
			bValue: "Hi",
		},
		{
			name:   "neither holds entry",
			a:      records(),
			b:      records(),
			aValue: "Hello world",
			bValue: "Hello World!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFake()
			in := New(ctx, gw, "v1", "v2", ParseQuery("Intro"), snapshot.Options{}, 0)
			require.Equal(t, snapshot.StatusChanged, in.Current().Status())

			gw.set("v1", tt.a)
			gw.set("v2", tt.b)
			ins, err := in.Refresh(ctx)
			require.NoError(t, err)

			assert.True(t, ins.A.Found)
			assert.True(t, ins.B.Found)
			assert.Equal(t, tt.aValue, ins.A.Entry.Value)
			assert.Equal(t, tt.bValue, ins.B.Entry.Value)
			assert.Equal(t, "Intro", ins.Signature.String())
			assert.Equal(t, ins, in.Current())

			a, b := in.Snapshots()
			assert.Len(t, a.Entries, len(tt.a))
			assert.Len(t, b.Entries, len(tt.b))
		})
	}
}

func TestInspector_RefreshWithoutRepository(t *testing.T) {
	a := snapshot.Snapshot{Name: "A", Entries: []snapshot.Entry{{Label: "Intro", Value: "x"}}}
	in := FromSnapshots(nil, a, snapshot.Snapshot{Name: "B"}, ParseQuery("Intro"), 0)

	ins, err := in.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshUnavailable)
	assert.Equal(t, snapshot.StatusRemoved, ins.Status())
}

func TestInspector_Show(t *testing.T) {
	in := New(context.Background(), newFake(), "v1", "v2", ParseQuery("Intro"), snapshot.Options{}, 0)

	ins := in.Show(ParseQuery("Gate"))
	assert.Equal(t, snapshot.StatusRemoved, ins.Status())
	assert.Equal(t, ins, in.Current())
}

func TestCompare(t *testing.T) {
	in := New(context.Background(), newFake(), "v1", "v2", ParseQuery("Intro"), snapshot.Options{IgnoreCase: true}, 0)

	var b bytes.Buffer
	require.NoError(t, in.Compare(&b, textdiff.DefaultOptions()))
	assert.Equal(t, "--- v1/Intro\n+++ v2/Intro\n-Hello world\n+Hello World!\n", b.String())

	b.Reset()
	in.Show(ParseQuery("Missing"))
	err := in.Compare(&b, textdiff.DefaultOptions())
	assert.ErrorIs(t, err, ErrNoEntry)
	assert.Empty(t, b.String())
}

func TestDocumentAndDrill(t *testing.T) {
	in := New(context.Background(), newFake(), "v1", "v2", ParseQuery("Stats"), snapshot.Options{}, 0)
	ins := in.Current()

	assert.Equal(t, map[string]any{"found": false}, Document(ins.A))

	doc := Document(ins.B)
	assert.Equal(t, true, doc["found"])
	assert.Equal(t, "Stats", doc["label"])
	assert.IsType(t, map[string]any{}, doc["content"])

	assert.Equal(t, "y", Drill(ins.B, "content.tags[1]").String())
	assert.Equal(t, int64(3), Drill(ins.B, "content.weight").Int())
	assert.False(t, Drill(ins.B, "content.nope").Exists())
	assert.False(t, Drill(ins.A, "content").Exists())
}

func TestEvaluate(t *testing.T) {
	gw := newFake()
	gw.set("v1", records("Intro", "Hello world", "Stats", `{"weight":1}`))
	in := New(context.Background(), gw, "v1", "v2", ParseQuery("Intro"), snapshot.Options{}, 0)

	tests := []struct {
		query string
		expr  string
		want  string
	}{
		{"Intro", "status", "changed"},
		{"Intro", "a.value == b.value", "false"},
		{"Intro", "upper(b.label)", "INTRO"},
		{"Intro", "length(split(\" \", a.content))", "2"},
		{"Stats", "b.content.weight - a.content.weight", "2"},
		{"Stats", "b.content.tags", `["x","y"]`},
		{"Stats", "try(a.content.tags, \"none\")", "none"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr, in.Show(ParseQuery(tt.query)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Evaluate("a.value ==", in.Current())
	assert.Error(t, err)

	_, err = Evaluate("a.nope", in.Current())
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	in := New(context.Background(), newFake(), "v1", "v2", ParseQuery("Gate"), snapshot.Options{}, 0)

	var b bytes.Buffer
	require.NoError(t, Format(&b, in.Current()))
	out := b.String()
	assert.True(t, strings.HasPrefix(out, "Gate  [removed]\n"))
	assert.Contains(t, out, "A: v1\n")
	assert.Contains(t, out, "  label:     Gate\n")
	assert.Contains(t, out, "  content (text):\n    shut\n")
	assert.Contains(t, out, "B: v2\n  (absent)\n")

	b.Reset()
	require.NoError(t, Format(&b, in.Show(ParseQuery("Nope"))))
	assert.True(t, strings.HasPrefix(b.String(), "Nope  [not found]\n"))
}

func TestRows(t *testing.T) {
	in := New(context.Background(), newFake(), "v1", "v2", ParseQuery("Stats"), snapshot.Options{}, 0)

	rows := Rows(in.Current())
	require.Len(t, rows, 2)
	assert.Equal(t, "a:Stats", rows[0].ID)
	assert.False(t, rows[0].Found)
	assert.Equal(t, "b", rows[1].Side)
	assert.Equal(t, "v2", rows[1].Snapshot)
	assert.Equal(t, "added", rows[1].Status)
	assert.True(t, rows[1].JSONLike)
}

func TestConsole_Execute(t *testing.T) {
	ctx := context.Background()
	c := &Console{
		Inspector: New(ctx, newFake(), "v1", "v2", ParseQuery("Intro"), snapshot.Options{}, 0),
		Diff:      textdiff.DefaultOptions(),
	}

	tests := []struct {
		line     string
		contains string
		quit     bool
	}{
		{"help", "Commands:", false},
		{"show", "Intro  [changed]", false},
		{"show Gate", "Gate  [removed]", false},
		{"show Intro", "Intro  [changed]", false},
		{"diff", "-Hello world\n+Hello World!", false},
		{"/status", "changed", false},
		{"/a.nope", "Error", false},
		{"drill b label", "Intro", false},
		{"drill c label", "Usage", false},
		{"drill a nope", "No results found.", false},
		{"list", "Intro\nGate\nStats", false},
		{"refresh", "Intro  [changed]", false},
		{"bogus", `Unknown command "bogus"`, false},
		{"exit", "", true},
		{"quit", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out, quit := c.Execute(ctx, tt.line)
			assert.Equal(t, tt.quit, quit)
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestConsole_RefreshWarning(t *testing.T) {
	ctx := context.Background()
	gw := newFake()
	c := &Console{Inspector: New(ctx, gw, "v1", "v2", ParseQuery("Intro"), snapshot.Options{}, 0)}

	gw.fail(errors.New("offline"))
	out, _ := c.Execute(ctx, "refresh")
	assert.True(t, strings.HasPrefix(out, "Warning: refresh unavailable"))
	assert.Contains(t, out, "Intro  [changed]")
}

func TestConsoleModel(t *testing.T) {
	ctx := context.Background()
	history := filepath.Join(t.TempDir(), "history")
	c := &Console{
		Inspector:   New(ctx, newFake(), "v1", "v2", ParseQuery("Intro"), snapshot.Options{}, 0),
		HistoryFile: history,
	}

	var m tea.Model = c.model(ctx)
	assert.Contains(t, m.View(), "Inspecting v1 (2 entries) against v2 (2 entries).")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("show Gate")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "show Gate")
	assert.Contains(t, m.View(), "Gate  [removed]")

	data, err := os.ReadFile(history)
	require.NoError(t, err)
	assert.Equal(t, "show Gate\n", string(data))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "show Gate", m.(consoleModel).input.Value())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "", m.(consoleModel).input.Value())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("exit")})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// History survives into the next session.
	assert.Equal(t, []string{"show Gate"}, c.model(ctx).history)
}
