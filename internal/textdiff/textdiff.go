// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package textdiff

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Meta names the two sides of a comparison.
type Meta struct {
	AName string
	BName string
	Key   string
}

// Options controls rendering. Context is the number of unchanged lines kept
// around each change; a negative value keeps them all.
type Options struct {
	Color      bool
	Context    int
	Structural bool
}

// DefaultOptions returns the options used when the caller has no preference.
func DefaultOptions() Options {
	return Options{Context: 3, Structural: true}
}

// Identical is written when the two values do not differ.
const Identical = "The values are identical."

var (
	addStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	delStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hdrStyle = lipgloss.NewStyle().Bold(true)
)

// Render writes the difference between a and b to w.
func Render(w io.Writer, a, b string, meta Meta, opts Options) error {
	log.Debugf("textdiff: %s vs %s (%s)", meta.AName, meta.BName, meta.Key)

	if a == b {
		_, err := fmt.Fprintln(w, Identical)
		return err
	}

	if opts.Structural {
		if ok, err := renderJSON(w, a, b, meta, opts); ok || err != nil {
			return err
		}
	}

	return renderLines(w, a, b, meta, opts)
}

// renderJSON handles the case where both sides decode to JSON objects or both
// to JSON arrays. It reports false when the structural path does not apply.
func renderJSON(w io.Writer, a, b string, meta Meta, opts Options) (bool, error) {
	var left, right any
	if json.Unmarshal([]byte(a), &left) != nil || json.Unmarshal([]byte(b), &right) != nil {
		return false, nil
	}

	var delta gojsondiff.Diff
	switch l := left.(type) {
	case map[string]any:
		r, ok := right.(map[string]any)
		if !ok {
			return false, nil
		}
		delta = gojsondiff.New().CompareObjects(l, r)
	case []any:
		r, ok := right.([]any)
		if !ok {
			return false, nil
		}
		delta = gojsondiff.New().CompareArrays(l, r)
	default:
		return false, nil
	}

	if !delta.Modified() {
		// Same document with different formatting.
		_, err := fmt.Fprintln(w, Identical)
		return true, err
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       opts.Color,
	})
	out, err := f.Format(delta)
	if err != nil {
		return true, fmt.Errorf("failed to format json diff: %w", err)
	}

	if err := header(w, meta, opts); err != nil {
		return true, err
	}
	_, err = io.WriteString(w, out)
	return true, err
}

func header(w io.Writer, meta Meta, opts Options) error {
	a := "--- " + side(meta.AName, meta.Key)
	b := "+++ " + side(meta.BName, meta.Key)
	if opts.Color {
		a, b = hdrStyle.Render(a), hdrStyle.Render(b)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", a, b)
	return err
}

func side(name, key string) string {
	if name == "" {
		name = "-"
	}
	if key == "" {
		return name
	}
	return name + "/" + key
}

// Line is one line of a line diff. Op is '+', '-' or ' '.
type Line struct {
	Op   byte
	Text string
}

// Lines computes the line diff of a and b.
func Lines(a, b string) []Line {
	dmp := diffmatchpatch.New()
	ca, cb, table := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), table)

	var lines []Line
	for _, d := range diffs {
		op := byte(' ')
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = '+'
		case diffmatchpatch.DiffDelete:
			op = '-'
		}
		for _, text := range splitLines(d.Text) {
			lines = append(lines, Line{Op: op, Text: text})
		}
	}
	return lines
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func renderLines(w io.Writer, a, b string, meta Meta, opts Options) error {
	if err := header(w, meta, opts); err != nil {
		return err
	}

	lines := Lines(a, b)
	keep := visible(lines, opts.Context)

	skipped := false
	for i, l := range lines {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			if _, err := fmt.Fprintln(w, "@@"); err != nil {
				return err
			}
			skipped = false
		}

		text := string(l.Op) + l.Text
		if opts.Color {
			switch l.Op {
			case '+':
				text = addStyle.Render(text)
			case '-':
				text = delStyle.Render(text)
			}
		}
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
	}
	if skipped {
		_, err := fmt.Fprintln(w, "@@")
		return err
	}
	return nil
}

// visible marks the lines within context of a change.
func visible(lines []Line, context int) []bool {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if context < 0 || l.Op != ' ' {
			keep[i] = true
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			if lines[j].Op != ' ' {
				keep[i] = true
				break
			}
		}
	}
	return keep
}
