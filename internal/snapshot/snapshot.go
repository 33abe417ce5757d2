// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"strings"
	"time"
)

// Options are the three independent normalization flags. They are passed
// explicitly into every Normalizer call and recorded on the Snapshot they
// produced.
type Options struct {
	IgnoreWhitespace bool `yaml:"ignore_whitespace" json:"ignore_whitespace"`
	IgnoreCase       bool `yaml:"ignore_case" json:"ignore_case"`
	JSONNormalize    bool `yaml:"json_normalize" json:"json_normalize"`
}

// String renders the options in the compact form used in log lines.
func (o Options) String() string {
	var flags []string
	if o.IgnoreWhitespace {
		flags = append(flags, "ws")
	}
	if o.IgnoreCase {
		flags = append(flags, "case")
	}
	if o.JSONNormalize {
		flags = append(flags, "json")
	}
	if len(flags) == 0 {
		return "strict"
	}
	return strings.Join(flags, ",")
}

// Entry is a single normalized lore record. Entries are values and are never
// mutated after the Normalizer builds them.
type Entry struct {
	// ID is the source id (map key or explicit uid) or, lacking one, the
	// one-based ordinal of the record within its collection.
	ID string `json:"id" yaml:"id"`
	// Key is the matching key after string normalization.
	Key string `json:"key" yaml:"key"`
	// Label is the display title. Never empty.
	Label string `json:"label" yaml:"label"`
	// Value is the content after canonicalization and string normalization.
	Value string `json:"value" yaml:"value"`
	// Category and Character take part in identity. Trimmed only.
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	Character string `json:"character,omitempty" yaml:"character,omitempty"`
	// Raw is the content exactly as found in the record.
	Raw string `json:"-" yaml:"-"`
	// Extra holds every raw attribute that is not part of the core schema.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Signature returns the identity signature used to match this entry across
// snapshots.
//
// The label is preferred over the key. Two entries sharing a trigger word but
// titled differently are different records, and an untitled entry falls back
// to its key anyway because the Normalizer derives the label from it.
func (e Entry) Signature() Signature {
	key := e.Label
	if key == "" {
		key = e.Key
	}
	return Signature{Key: key, Category: e.Category, Character: e.Character}
}

// Meta describes how a Snapshot was built.
type Meta struct {
	// Missing is set when the requested source could not be resolved. The
	// Snapshot is then empty.
	Missing bool `json:"missing,omitempty" yaml:"missing,omitempty"`
	// Source names the gateway the raw collection came from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	// Options are the normalization options baked into the entries.
	Options Options `json:"options" yaml:"options"`
	// Candidates is the number of candidate records extracted.
	Candidates int `json:"candidates" yaml:"candidates"`
	// Skipped counts candidates that matched no known record shape.
	Skipped int `json:"skipped" yaml:"skipped"`
	// Duplicates counts candidates dropped by de-duplication.
	Duplicates int `json:"duplicates" yaml:"duplicates"`
	// ModTime is the source modification time, when the gateway knows it.
	ModTime time.Time `json:"mod_time,omitempty" yaml:"mod_time,omitempty"`
}

// Snapshot is the normalized, comparison-ready form of one named collection.
// Keys are not required to be unique; identity is the Signature.
type Snapshot struct {
	Name    string  `json:"name" yaml:"name"`
	Entries []Entry `json:"entries" yaml:"entries"`
	Meta    Meta    `json:"meta" yaml:"meta"`
}

// Missing returns an empty Snapshot flagged as unresolvable.
func Missing(name string, opts Options) Snapshot {
	return Snapshot{
		Name:    name,
		Entries: []Entry{},
		Meta:    Meta{Missing: true, Options: opts},
	}
}

// Len returns the number of entries.
func (s Snapshot) Len() int { return len(s.Entries) }
