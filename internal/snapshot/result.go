// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

// Status classifies one signature in a DiffResult.
type Status string

const (
	StatusAdded   Status = "added"
	StatusRemoved Status = "removed"
	StatusChanged Status = "changed"
	StatusSame    Status = "same"
)

// Statuses lists every Status in presentation order.
var Statuses = []Status{StatusAdded, StatusRemoved, StatusChanged, StatusSame}

// Pair holds the two sides of a signature present in both snapshots.
type Pair struct {
	A Entry `json:"a" yaml:"a"`
	B Entry `json:"b" yaml:"b"`
}

// Stats counts the buckets of a DiffResult.
type Stats struct {
	Added   int `json:"added" yaml:"added"`
	Removed int `json:"removed" yaml:"removed"`
	Changed int `json:"changed" yaml:"changed"`
	Same    int `json:"same" yaml:"same"`
}

// Total is the size of the signature union.
func (s Stats) Total() int { return s.Added + s.Removed + s.Changed + s.Same }

// DiffResult partitions the union of signatures of two snapshots. Every
// signature lands in exactly one bucket.
type DiffResult struct {
	A       string  `json:"a" yaml:"a"`
	B       string  `json:"b" yaml:"b"`
	Added   []Entry `json:"added" yaml:"added"`
	Removed []Entry `json:"removed" yaml:"removed"`
	Changed []Pair  `json:"changed" yaml:"changed"`
	Same    []Pair  `json:"same" yaml:"same"`
	Stats   Stats   `json:"stats" yaml:"stats"`
	// Order lists every signature in result order: A's iteration order
	// followed by signatures new to B in B's order.
	Order []Signature `json:"-" yaml:"-"`
}

// Identical reports whether nothing was added, removed or changed.
func (r DiffResult) Identical() bool {
	return r.Stats.Added == 0 && r.Stats.Removed == 0 && r.Stats.Changed == 0
}
