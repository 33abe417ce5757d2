// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package normalizer

import (
	"strconv"
	"strings"

	"github.com/tfctl/lorectl/internal/log"
	"github.com/tfctl/lorectl/internal/snapshot"
)

// Normalize converts a raw record collection into a Snapshot. It never fails:
// values that match no known shape are skipped and counted in Meta.Skipped.
// The result depends only on raw and opts.
func Normalize(name string, raw any, opts snapshot.Options) snapshot.Snapshot {
	ex := extract(raw)

	snap := snapshot.Snapshot{
		Name:    name,
		Entries: make([]snapshot.Entry, 0, len(ex.candidates)),
		Meta: snapshot.Meta{
			Options:    opts,
			Candidates: len(ex.candidates),
			Skipped:    ex.skipped,
		},
	}

	type dedupKey struct{ key, value string }
	seen := make(map[dedupKey]bool, len(ex.candidates))

	for i, c := range ex.candidates {
		r := resolveRecord(c, i+1)

		dk := dedupKey{r.key, r.content}
		if seen[dk] {
			log.Tracef("normalize: duplicate dropped: name=%s label=%s", name, r.label)
			snap.Meta.Duplicates++
			continue
		}
		seen[dk] = true

		snap.Entries = append(snap.Entries, build(r, opts))
	}

	log.Debugf("normalize: name=%s opts=%s candidates=%d entries=%d skipped=%d duplicates=%d",
		name, opts, snap.Meta.Candidates, len(snap.Entries), snap.Meta.Skipped, snap.Meta.Duplicates)

	return snap
}

// NormalizeString applies the whitespace and case options to s.
func NormalizeString(s string, opts snapshot.Options) string {
	if opts.IgnoreWhitespace {
		s = strings.Join(strings.Fields(s), " ")
	}
	if opts.IgnoreCase {
		s = strings.ToLower(s)
	}
	return s
}

// NormalizeValue canonicalizes JSON content when requested and then applies
// the string options. Content that fails to parse as JSON is normalized as a
// plain string.
func NormalizeValue(s string, opts snapshot.Options) string {
	if opts.JSONNormalize {
		if c, ok := Canonicalize(s); ok {
			s = c
		}
	}
	return NormalizeString(s, opts)
}

// resolved holds the pre-normalization fields of one candidate.
type resolved struct {
	id        string
	key       string
	label     string
	content   string
	category  string
	character string
	extra     map[string]any
}

// resolveRecord locates every schema field of c through the alias table. The
// ordinal is one-based and only used when the record has no id.
func resolveRecord(c candidate, ordinal int) resolved {
	rec := c.record
	used := map[string]bool{}

	r := resolved{id: c.id}
	if id, from, ok := Resolve(rec, FieldID); ok {
		r.id = id
		used[from] = true
	}

	if label, from, ok := Resolve(rec, FieldLabel); ok {
		r.label = label
		used[from] = true
	} else if r.id != "" {
		r.label = "#" + r.id
	} else {
		r.label = "#" + strconv.Itoa(ordinal)
	}
	if r.id == "" {
		r.id = strconv.Itoa(ordinal)
	}

	// Every entry stays matchable, even without a trigger.
	if !resolveKey(rec, &r, used) {
		r.key = r.label
	}

	r.content = resolveContent(rec, used)

	if v, from, ok := Resolve(rec, FieldCategory); ok {
		r.category = strings.TrimSpace(v)
		used[from] = true
	}
	if v, from, ok := Resolve(rec, FieldCharacter); ok {
		r.character = strings.TrimSpace(v)
		used[from] = true
	}

	for k, v := range rec {
		if used[k] {
			continue
		}
		if r.extra == nil {
			r.extra = make(map[string]any, len(rec))
		}
		r.extra[k] = v
	}

	return r
}

// resolveKey prefers a scalar key alias and falls back to the first element
// of a trigger list.
func resolveKey(rec map[string]any, r *resolved, used map[string]bool) bool {
	if key, from, ok := Resolve(rec, FieldKey); ok {
		r.key = key
		used[from] = true
		return true
	}
	if triggers, from, ok := ResolveList(rec, FieldTriggers); ok {
		r.key = triggers[0]
		used[from] = true
		return true
	}
	return false
}

// resolveContent returns the first present content alias. Structured content
// is serialized canonically so it can be compared as text.
func resolveContent(rec map[string]any, used map[string]bool) string {
	for _, alias := range Aliases[FieldContent] {
		v, ok := rec[alias]
		if !ok || v == nil {
			continue
		}
		used[alias] = true
		if s, scalar := scalarString(v); scalar {
			return s
		}
		return CanonicalValue(v)
	}
	return ""
}

func build(r resolved, opts snapshot.Options) snapshot.Entry {
	return snapshot.Entry{
		ID:        r.id,
		Key:       NormalizeString(r.key, opts),
		Label:     r.label,
		Value:     NormalizeValue(r.content, opts),
		Category:  r.category,
		Character: r.character,
		Raw:       r.content,
		Extra:     r.extra,
	}
}

// Records converts a Snapshot back into raw records that Normalize accepts.
// Content is taken from Raw when present, so normalizing the result with
// other options starts from the source text. Keys were already normalized and
// stay that way. With the same options every key and value is unchanged.
func Records(s snapshot.Snapshot) []any {
	records := make([]any, 0, len(s.Entries))
	for _, e := range s.Entries {
		rec := map[string]any{}
		for k, v := range e.Extra {
			rec[k] = v
		}
		rec["uid"] = e.ID
		rec["primary_key"] = e.Key
		rec["comment"] = e.Label
		rec["content"] = e.Value
		if e.Raw != "" {
			rec["content"] = e.Raw
		}
		if e.Category != "" {
			rec["category"] = e.Category
		}
		if e.Character != "" {
			rec["character"] = e.Character
		}
		records = append(records, rec)
	}
	return records
}
