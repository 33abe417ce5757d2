// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Format writes a human-readable rendering of ins.
func Format(w io.Writer, ins Inspection) error {
	status := string(ins.Status())
	if status == "" {
		status = "not found"
	}
	if _, err := fmt.Fprintf(w, "%s  [%s]\n", ins.Signature, status); err != nil {
		return err
	}

	for _, side := range []struct {
		title string
		name  string
		v     View
	}{{"A", ins.AName, ins.A}, {"B", ins.BName, ins.B}} {
		if _, err := fmt.Fprintf(w, "\n%s: %s\n", side.title, side.name); err != nil {
			return err
		}
		if err := formatView(w, side.v); err != nil {
			return err
		}
	}
	return nil
}

func formatView(w io.Writer, v View) error {
	if !v.Found {
		_, err := fmt.Fprintln(w, "  (absent)")
		return err
	}

	var b strings.Builder
	for _, k := range []string{"id", "label", "key", "category", "character"} {
		if v.Fields[k] != "" {
			fmt.Fprintf(&b, "  %-10s %s\n", k+":", v.Fields[k])
		}
	}

	if len(v.Extra) > 0 {
		keys := make([]string, 0, len(v.Extra))
		for k := range v.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(&b, "  %-10s %s\n", "extra:", strings.Join(keys, ", "))
	}

	kind := "text"
	if v.JSONLike {
		kind = "json"
	}
	fmt.Fprintf(&b, "  content (%s):\n", kind)
	for _, line := range strings.Split(v.Preview, "\n") {
		fmt.Fprintf(&b, "    %s\n", line)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// SideRow is one side of an inspection flattened for the output pipeline.
type SideRow struct {
	ID        string         `jsonapi:"primary,entry-sides"`
	Side      string         `jsonapi:"attr,side"`
	Snapshot  string         `jsonapi:"attr,snapshot"`
	Status    string         `jsonapi:"attr,status"`
	Found     bool           `jsonapi:"attr,found"`
	Label     string         `jsonapi:"attr,label"`
	Key       string         `jsonapi:"attr,key"`
	Category  string         `jsonapi:"attr,category"`
	Character string         `jsonapi:"attr,character"`
	JSONLike  bool           `jsonapi:"attr,json"`
	Preview   string         `jsonapi:"attr,preview"`
	Extra     map[string]any `jsonapi:"attr,extra"`
}

// Rows flattens ins into one row per side.
func Rows(ins Inspection) []*SideRow {
	status := string(ins.Status())
	row := func(side, name string, v View) *SideRow {
		return &SideRow{
			ID:        side + ":" + ins.Signature.String(),
			Side:      side,
			Snapshot:  name,
			Status:    status,
			Found:     v.Found,
			Label:     v.Entry.Label,
			Key:       v.Entry.Key,
			Category:  v.Entry.Category,
			Character: v.Entry.Character,
			JSONLike:  v.JSONLike,
			Preview:   v.Preview,
			Extra:     v.Extra,
		}
	}
	return []*SideRow{row("a", ins.AName, ins.A), row("b", ins.BName, ins.B)}
}
