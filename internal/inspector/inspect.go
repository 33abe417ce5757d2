// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/tfctl/lorectl/internal/snapshot"
)

// DefaultPreview is the default preview length in runes.
const DefaultPreview = 600

// Ellipsis ends a truncated preview.
const Ellipsis = "…"

// View is one side of an inspection.
type View struct {
	Found    bool
	Entry    snapshot.Entry
	Fields   map[string]string
	Extra    map[string]any
	Preview  string
	JSONLike bool
}

// Inspection is the two-sided view of one signature.
type Inspection struct {
	Query     Query
	Signature snapshot.Signature
	AName     string
	BName     string
	A         View
	B         View
}

// Status classifies the inspected signature the way the diff engine would.
// It is empty when neither side holds the entry.
func (ins Inspection) Status() snapshot.Status {
	switch {
	case ins.A.Found && ins.B.Found && ins.A.Entry.Value == ins.B.Entry.Value:
		return snapshot.StatusSame
	case ins.A.Found && ins.B.Found:
		return snapshot.StatusChanged
	case ins.A.Found:
		return snapshot.StatusRemoved
	case ins.B.Found:
		return snapshot.StatusAdded
	default:
		return ""
	}
}

// InspectOption adjusts Inspect.
type InspectOption func(*inspectConfig)

type inspectConfig struct {
	preview int
}

// WithPreview bounds previews to n runes. n <= 0 selects DefaultPreview.
func WithPreview(n int) InspectOption {
	return func(c *inspectConfig) {
		if n > 0 {
			c.preview = n
		}
	}
}

// Inspect resolves q against a and b. Each side is matched on its own, so a
// query field left unconstrained may match different values on either side.
// When several entries of a side match, the last one is used, as in Diff. The
// signature is that of the match in a, else the match in b.
func Inspect(a, b snapshot.Snapshot, q Query, options ...InspectOption) Inspection {
	cfg := inspectConfig{preview: DefaultPreview}
	for _, opt := range options {
		opt(&cfg)
	}

	ins := Inspection{Query: q, AName: a.Name, BName: b.Name}
	ins.A = view(a, q, cfg)
	ins.B = view(b, q, cfg)

	switch {
	case ins.A.Found:
		ins.Signature = ins.A.Entry.Signature()
	case ins.B.Found:
		ins.Signature = ins.B.Entry.Signature()
	default:
		ins.Signature = q.signature()
	}
	return ins
}

func view(s snapshot.Snapshot, q Query, cfg inspectConfig) View {
	var (
		found bool
		e     snapshot.Entry
	)
	for _, candidate := range s.Entries {
		if q.Matches(candidate) {
			e, found = candidate, true
		}
	}
	if !found {
		return View{}
	}
	sig := e.Signature()

	content := e.Raw
	if content == "" {
		content = e.Value
	}

	return View{
		Found: true,
		Entry: e,
		Fields: map[string]string{
			"id":        e.ID,
			"key":       e.Key,
			"label":     e.Label,
			"category":  e.Category,
			"character": e.Character,
			"signature": sig.String(),
		},
		Extra:    e.Extra,
		Preview:  Preview(content, cfg.preview),
		JSONLike: JSONLike(content),
	}
}

// Preview returns s bounded to n runes, ending in Ellipsis when truncated.
func Preview(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + Ellipsis
}

// JSONLike reports whether s is a JSON object or array.
func JSONLike(s string) bool {
	t := strings.TrimSpace(s)
	if t == "" || (t[0] != '{' && t[0] != '[') {
		return false
	}
	return json.Valid([]byte(t))
}
