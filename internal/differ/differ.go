// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/apex/log"

	"github.com/tfctl/lorectl/internal/snapshot"
)

// index maps signatures to entries while remembering first-seen order.
type index struct {
	order   []snapshot.Signature
	entries map[snapshot.Signature]snapshot.Entry
}

// newIndex builds the signature mapping for one snapshot. A later entry with
// a colliding signature overwrites the earlier one but keeps its position.
func newIndex(s snapshot.Snapshot) index {
	idx := index{
		order:   make([]snapshot.Signature, 0, len(s.Entries)),
		entries: make(map[snapshot.Signature]snapshot.Entry, len(s.Entries)),
	}
	for _, e := range s.Entries {
		sig := e.Signature()
		if _, exists := idx.entries[sig]; !exists {
			idx.order = append(idx.order, sig)
		} else {
			log.Debugf("differ: signature collision in %s: %s", s.Name, sig)
		}
		idx.entries[sig] = e
	}
	return idx
}

// Diff partitions the union of signatures of a and b into added, removed,
// changed and same. It is pure: the snapshots already carry their
// normalization, so values are compared as plain strings.
//
// Result order is A's signatures in A's order followed by signatures new to B
// in B's order.
func Diff(a, b snapshot.Snapshot) snapshot.DiffResult {
	ia, ib := newIndex(a), newIndex(b)

	result := snapshot.DiffResult{
		A:       a.Name,
		B:       b.Name,
		Added:   []snapshot.Entry{},
		Removed: []snapshot.Entry{},
		Changed: []snapshot.Pair{},
		Same:    []snapshot.Pair{},
		Order:   make([]snapshot.Signature, 0, len(ia.order)+len(ib.order)),
	}

	for _, sig := range ia.order {
		ea := ia.entries[sig]
		eb, inB := ib.entries[sig]
		switch {
		case !inB:
			result.Removed = append(result.Removed, ea)
		case ea.Value == eb.Value:
			result.Same = append(result.Same, snapshot.Pair{A: ea, B: eb})
		default:
			result.Changed = append(result.Changed, snapshot.Pair{A: ea, B: eb})
		}
		result.Order = append(result.Order, sig)
	}

	for _, sig := range ib.order {
		if _, inA := ia.entries[sig]; inA {
			continue
		}
		result.Added = append(result.Added, ib.entries[sig])
		result.Order = append(result.Order, sig)
	}

	result.Stats = snapshot.Stats{
		Added:   len(result.Added),
		Removed: len(result.Removed),
		Changed: len(result.Changed),
		Same:    len(result.Same),
	}

	log.Debugf("differ: %s -> %s: +%d -%d ~%d =%d", a.Name, b.Name,
		result.Stats.Added, result.Stats.Removed, result.Stats.Changed, result.Stats.Same)

	return result
}

// Row is one signature of a DiffResult flattened for display. The jsonapi tags
// let rows flow through the common output pipeline.
type Row struct {
	ID        string `jsonapi:"primary,diff-rows"`
	Status    string `jsonapi:"attr,status"`
	Signature string `jsonapi:"attr,signature"`
	Label     string `jsonapi:"attr,label"`
	Key       string `jsonapi:"attr,key"`
	Category  string `jsonapi:"attr,category"`
	Character string `jsonapi:"attr,character"`
	Before    string `jsonapi:"attr,before"`
	After     string `jsonapi:"attr,after"`
}

// Rows flattens r into display rows in result order. Only rows whose status is
// in keep are returned; an empty keep returns every row.
func Rows(r snapshot.DiffResult, keep ...snapshot.Status) []*Row {
	wanted := map[snapshot.Status]bool{}
	for _, s := range keep {
		wanted[s] = true
	}

	status := make(map[snapshot.Signature]snapshot.Status, len(r.Order))
	before := make(map[snapshot.Signature]snapshot.Entry, len(r.Order))
	after := make(map[snapshot.Signature]snapshot.Entry, len(r.Order))
	for _, e := range r.Removed {
		status[e.Signature()] = snapshot.StatusRemoved
		before[e.Signature()] = e
	}
	for _, e := range r.Added {
		status[e.Signature()] = snapshot.StatusAdded
		after[e.Signature()] = e
	}
	for _, p := range r.Changed {
		status[p.A.Signature()] = snapshot.StatusChanged
		before[p.A.Signature()], after[p.A.Signature()] = p.A, p.B
	}
	for _, p := range r.Same {
		status[p.A.Signature()] = snapshot.StatusSame
		before[p.A.Signature()], after[p.A.Signature()] = p.A, p.B
	}

	rows := make([]*Row, 0, len(r.Order))
	for _, sig := range r.Order {
		st := status[sig]
		if len(wanted) > 0 && !wanted[st] {
			continue
		}
		a, b := before[sig], after[sig]
		shown := b
		if st == snapshot.StatusRemoved {
			shown = a
		}
		rows = append(rows, &Row{
			ID:        sig.String(),
			Status:    string(st),
			Signature: sig.String(),
			Label:     shown.Label,
			Key:       shown.Key,
			Category:  sig.Category,
			Character: sig.Character,
			Before:    a.Value,
			After:     b.Value,
		})
	}
	return rows
}
