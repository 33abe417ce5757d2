// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package normalizer

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/lorectl/internal/snapshot"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// expectedEntry lists the entry fields a case checks. Empty id, category and
// character are not compared.
type expectedEntry struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	Key       string `yaml:"key"`
	Value     string `yaml:"value"`
	Category  string `yaml:"category"`
	Character string `yaml:"character"`
}

// normalizeTestCase represents a single case in normalize_cases.yaml.
type normalizeTestCase struct {
	Name       string           `yaml:"name"`
	Raw        any              `yaml:"raw"`
	Options    snapshot.Options `yaml:"options"`
	Skipped    int              `yaml:"skipped"`
	Duplicates int              `yaml:"duplicates"`
	Expect     []expectedEntry  `yaml:"expect"`
}

// loadTestData loads test data from embedded YAML files.
func loadTestData(filename string, v interface{}) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestNormalize(t *testing.T) {
	var tests []normalizeTestCase
	require.NoError(t, loadTestData("normalize_cases.yaml", &tests))
	require.NotEmpty(t, tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			snap := Normalize("case", tt.Raw, tt.Options)

			assert.Equal(t, "case", snap.Name)
			assert.False(t, snap.Meta.Missing)
			assert.Equal(t, tt.Skipped, snap.Meta.Skipped, "skipped")
			assert.Equal(t, tt.Duplicates, snap.Meta.Duplicates, "duplicates")
			require.Len(t, snap.Entries, len(tt.Expect))

			for i, want := range tt.Expect {
				got := snap.Entries[i]
				if want.ID != "" {
					assert.Equal(t, want.ID, got.ID, "entry %d id", i)
				}
				assert.Equal(t, want.Label, got.Label, "entry %d label", i)
				assert.Equal(t, want.Key, got.Key, "entry %d key", i)
				assert.Equal(t, want.Value, got.Value, "entry %d value", i)
				assert.Equal(t, want.Category, got.Category, "entry %d category", i)
				assert.Equal(t, want.Character, got.Character, "entry %d character", i)
			}
		})
	}
}

func TestNormalize_LabelNeverEmpty(t *testing.T) {
	raw := []any{
		map[string]any{"content": "no title or id"},
		map[string]any{"id": "abc", "content": "id only"},
		map[string]any{"comment": "   ", "content": "blank title"},
	}

	snap := Normalize("labels", raw, snapshot.Options{})
	require.Len(t, snap.Entries, 3)
	assert.Equal(t, "#1", snap.Entries[0].Label)
	assert.Equal(t, "#abc", snap.Entries[1].Label)
	assert.Equal(t, "#3", snap.Entries[2].Label)
	for _, e := range snap.Entries {
		assert.NotEmpty(t, e.Label)
		assert.Equal(t, e.Label, e.Key)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := map[string]any{
		"entries": map[string]any{
			"3":  map[string]any{"comment": "C", "content": `{"z":1,"a":2}`},
			"1":  map[string]any{"comment": "A", "content": "Alpha"},
			"20": map[string]any{"comment": "B", "content": "Beta", "extra": []any{1, 2}},
		},
	}
	opts := snapshot.Options{IgnoreWhitespace: true, IgnoreCase: true, JSONNormalize: true}

	first := Normalize("d", raw, opts)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Normalize("d", raw, opts))
	}
	assert.Equal(t, []string{"A", "C", "B"}, labels(first))
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := []any{
		map[string]any{"comment": "Intro", "key": []any{"  Hello  There "}, "content": " Hello   World "},
		map[string]any{"title": "Json", "content": `{ "b": [1, 2], "a": {"y": "Q", "x": null} }`},
		map[string]any{"name": "Flag", "content": "TRUE", "category": "misc", "speaker": "Bob"},
		map[string]any{"name": "Blank", "content": ""},
	}

	for _, opts := range []snapshot.Options{
		{},
		{IgnoreWhitespace: true},
		{IgnoreCase: true},
		{JSONNormalize: true},
		{IgnoreWhitespace: true, IgnoreCase: true, JSONNormalize: true},
	} {
		t.Run(opts.String(), func(t *testing.T) {
			once := Normalize("i", raw, opts)
			twice := Normalize("i", Records(once), opts)

			require.Len(t, twice.Entries, len(once.Entries))
			for i := range once.Entries {
				assert.Equal(t, once.Entries[i].Key, twice.Entries[i].Key)
				assert.Equal(t, once.Entries[i].Value, twice.Entries[i].Value)
				assert.Equal(t, once.Entries[i].Signature(), twice.Entries[i].Signature())
			}
		})
	}
}

func TestNormalize_JSONCanonicalization(t *testing.T) {
	opts := snapshot.Options{JSONNormalize: true}

	a := NormalizeValue(`{"a":1,"b":2}`, opts)
	b := NormalizeValue(`{"b":2,"a":1}`, opts)
	assert.Equal(t, a, b)
	assert.Equal(t, `{"a":1,"b":2}`, a)

	// Without the option, source key order and formatting matter.
	assert.NotEqual(t,
		NormalizeValue(`{"a":1,"b":2}`, snapshot.Options{}),
		NormalizeValue(`{"b":2,"a":1}`, snapshot.Options{}))
}

func TestCanonicalize_Numbers(t *testing.T) {
	tests := []struct {
		a, b string
		want string
	}{
		{`{"a":1.0}`, `{"a":1}`, `{"a":1}`},
		{`{"a":1e2}`, `{"a":100}`, `{"a":100}`},
		{`[1E+2, 0.5]`, `[100, 5e-1]`, `[100,0.5]`},
		{`{"a":-0.0}`, `{"a":0}`, `{"a":0}`},
		{`{"a":1.5e-7}`, `{"a":0.00000015}`, `{"a":1.5e-07}`},
		{`{"a":1e21}`, `{"a":1000000000000000000000.0}`, `{"a":1e+21}`},
	}

	opts := snapshot.Options{JSONNormalize: true}
	for _, tt := range tests {
		t.Run(tt.a, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeValue(tt.a, opts))
			assert.Equal(t, tt.want, NormalizeValue(tt.b, opts))
		})
	}

	// Integer literals beyond float64 precision keep their digits.
	got, ok := Canonicalize(`[9007199254740993]`)
	require.True(t, ok)
	assert.Equal(t, `[9007199254740993]`, got)

	// Decoded floats take the same form as parsed literals.
	assert.Equal(t, `{"a":1,"b":2.5}`, CanonicalValue(map[string]any{"a": 1.0, "b": 2.5}))
}

func TestCanonicalValue_Circular(t *testing.T) {
	self := map[string]any{"name": "loop"}
	self["self"] = self

	list := []any{"head", nil}
	list[1] = list

	shared := map[string]any{"v": 1}

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"map refers to itself", self, `{"name":"loop","self":` + CircularMarker + `}`},
		{"slice refers to itself", list, `["head",` + CircularMarker + `]`},
		{"shared sibling is not a cycle", []any{shared, shared}, `[{"v":1},{"v":1}]`},
		{"nested back reference", map[string]any{"outer": []any{self}},
			`{"outer":[{"name":"loop","self":` + CircularMarker + `}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalValue(tt.in))
		})
	}

	// Structured content with a cycle still normalizes.
	snap := Normalize("c", []any{map[string]any{"comment": "Loop", "content": self}}, snapshot.Options{})
	require.Len(t, snap.Entries, 1)
	assert.Contains(t, snap.Entries[0].Value, CircularMarker)
}

func TestNormalize_SkippedCandidates(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		skipped int
		labels  []string
	}{
		{
			name:    "scalars beside a record",
			raw:     []any{"junk", 7, map[string]any{"comment": "Keep", "content": "kept"}},
			skipped: 2,
			labels:  []string{"Keep"},
		},
		{
			name:    "nil and bool members",
			raw:     []any{nil, true, map[string]any{"comment": "Keep", "content": "kept"}},
			skipped: 2,
			labels:  []string{"Keep"},
		},
		{
			name:    "only scalars",
			raw:     []any{"a", 1.5},
			skipped: 2,
			labels:  []string{},
		},
		{
			name:    "nothing skipped",
			raw:     []any{map[string]any{"comment": "Keep", "content": "kept"}},
			skipped: 0,
			labels:  []string{"Keep"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Normalize("s", tt.raw, snapshot.Options{})
			assert.Equal(t, tt.skipped, snap.Meta.Skipped)
			got := []string{}
			for _, e := range snap.Entries {
				got = append(got, e.Label)
			}
			assert.Equal(t, tt.labels, got)
		})
	}
}

func TestNormalize_WhitespaceAndCase(t *testing.T) {
	loose := snapshot.Options{IgnoreWhitespace: true, IgnoreCase: true}
	assert.Equal(t, NormalizeValue(" Foo  Bar ", loose), NormalizeValue("foo bar", loose))

	strict := snapshot.Options{}
	assert.NotEqual(t, NormalizeValue(" Foo  Bar ", strict), NormalizeValue("foo bar", strict))
}

func TestNormalize_UnparseableJSONFallsBack(t *testing.T) {
	opts := snapshot.Options{JSONNormalize: true, IgnoreWhitespace: true}
	assert.Equal(t, `{"a": 1,`, NormalizeValue(`{"a":   1,`, opts))
}

func TestNormalize_Empty(t *testing.T) {
	for _, raw := range []any{nil, []any{}, map[string]any{}} {
		snap := Normalize("empty", raw, snapshot.Options{})
		assert.NotNil(t, snap.Entries)
		assert.Empty(t, snap.Entries)
		assert.Zero(t, snap.Meta.Skipped)
	}
}

func TestNormalize_ExtraAttributes(t *testing.T) {
	raw := []any{map[string]any{
		"uid":      7,
		"comment":  "Gate",
		"key":      []any{"gate"},
		"content":  "shut",
		"order":    100,
		"disabled": false,
	}}

	snap := Normalize("x", raw, snapshot.Options{})
	require.Len(t, snap.Entries, 1)
	e := snap.Entries[0]
	assert.Equal(t, "7", e.ID)
	assert.Equal(t, map[string]any{"order": 100, "disabled": false}, e.Extra)
	assert.Equal(t, "shut", e.Raw)
}

func TestNormalize_FirstTriggerOnly(t *testing.T) {
	// Only the first trigger takes part in matching; later triggers are
	// carried in Extra but never consulted.
	raw := []any{
		map[string]any{"key": []any{"alpha", "shared"}, "content": "one"},
		map[string]any{"key": []any{"beta", "shared"}, "content": "two"},
	}

	snap := Normalize("t", raw, snapshot.Options{})
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "alpha", snap.Entries[0].Key)
	assert.Equal(t, "beta", snap.Entries[1].Key)
}

func TestResolve(t *testing.T) {
	rec := map[string]any{
		"comment": "",
		"title":   "Second",
		"name":    "Third",
		"key":     []any{"list"},
		"keyword": 12.0,
	}

	v, from, ok := Resolve(rec, FieldLabel)
	assert.True(t, ok)
	assert.Equal(t, "Second", v)
	assert.Equal(t, "title", from)

	v, from, ok = Resolve(rec, FieldKey)
	assert.True(t, ok)
	assert.Equal(t, "12", v)
	assert.Equal(t, "keyword", from)

	_, _, ok = Resolve(rec, FieldCharacter)
	assert.False(t, ok)

	list, from, ok := ResolveList(rec, FieldTriggers)
	assert.True(t, ok)
	assert.Equal(t, []string{"list"}, list)
	assert.Equal(t, "key", from)
}

func TestAliasesCoverEveryField(t *testing.T) {
	for _, f := range []Field{FieldID, FieldKey, FieldTriggers, FieldLabel, FieldContent, FieldCategory, FieldCharacter} {
		assert.NotEmpty(t, Aliases[f], "field %s", f)
	}
}

func labels(s snapshot.Snapshot) []string {
	out := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, e.Label)
	}
	return out
}
