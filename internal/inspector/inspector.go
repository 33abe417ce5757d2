// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/apex/log"

	"github.com/tfctl/lorectl/internal/repository"
	"github.com/tfctl/lorectl/internal/snapshot"
	"github.com/tfctl/lorectl/internal/textdiff"
)

// ErrRefreshUnavailable is wrapped by Refresh when the repository could not
// supply fresh snapshots. The previous inspection stays in place.
var ErrRefreshUnavailable = errors.New("refresh unavailable")

// ErrNoEntry is returned by Compare when neither side holds the entry.
var ErrNoEntry = errors.New("entry not found in either snapshot")

// Inspector holds the displayed inspection of one signature across two named
// snapshots of a repository.
type Inspector struct {
	gw      repository.Gateway
	aName   string
	bName   string
	opts    snapshot.Options
	preview int

	mu      sync.Mutex
	a, b    snapshot.Snapshot
	current Inspection
}

// New loads both snapshots and inspects q. A collection the repository cannot
// supply is treated as empty.
func New(ctx context.Context, gw repository.Gateway, aName, bName string, q Query, opts snapshot.Options, preview int) *Inspector {
	in := &Inspector{gw: gw, aName: aName, bName: bName, opts: opts, preview: preview}
	in.a = repository.Snapshot(ctx, gw, aName, opts)
	in.b = repository.Snapshot(ctx, gw, bName, opts)
	in.current = Inspect(in.a, in.b, q, WithPreview(preview))
	return in
}

// FromSnapshots builds an Inspector over snapshots that are already loaded.
// gw is used by Refresh and may be nil, in which case Refresh always fails
// softly.
func FromSnapshots(gw repository.Gateway, a, b snapshot.Snapshot, q Query, preview int) *Inspector {
	return &Inspector{
		gw: gw, aName: a.Name, bName: b.Name, opts: a.Meta.Options, preview: preview,
		a: a, b: b,
		current: Inspect(a, b, q, WithPreview(preview)),
	}
}

// Current returns the displayed inspection.
func (in *Inspector) Current() Inspection {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.current
}

// Snapshots returns the snapshots behind the displayed inspection.
func (in *Inspector) Snapshots() (snapshot.Snapshot, snapshot.Snapshot) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.a, in.b
}

// Show inspects q against the current snapshots and displays the result.
func (in *Inspector) Show(q Query) Inspection {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.current = Inspect(in.a, in.b, q, WithPreview(in.preview))
	return in.current
}

// Refresh re-reads both snapshots, bypassing any cache, and re-inspects the
// current query. A side is superseded only when the entry is found again;
// otherwise its previously displayed view is kept. A collection that no
// longer exists becomes empty. Any other repository failure leaves the
// displayed inspection unchanged and returns it with an error wrapping
// ErrRefreshUnavailable.
//
// Concurrent refreshes are not ordered; whichever finishes last is displayed.
func (in *Inspector) Refresh(ctx context.Context) (Inspection, error) {
	in.mu.Lock()
	q := in.current.Query
	in.mu.Unlock()

	a, errA := in.load(ctx, in.aName)
	b, errB := in.load(ctx, in.bName)
	if err := errors.Join(errA, errB); err != nil {
		log.Warnf("inspector: keeping previous view: %v", err)
		return in.Current(), fmt.Errorf("%w: %w", ErrRefreshUnavailable, err)
	}

	fresh := Inspect(a, b, q, WithPreview(in.preview))

	in.mu.Lock()
	defer in.mu.Unlock()
	in.a, in.b = a, b
	in.current = supersede(in.current, fresh)
	return in.current, nil
}

// supersede overlays the sides of fresh that were found onto prev.
func supersede(prev, fresh Inspection) Inspection {
	out := prev
	out.AName, out.BName = fresh.AName, fresh.BName
	if fresh.A.Found {
		out.A = fresh.A
	} else if prev.A.Found {
		log.Debugf("inspector: %s not in %s after refresh, keeping previous view", prev.Signature, fresh.AName)
	}
	if fresh.B.Found {
		out.B = fresh.B
	} else if prev.B.Found {
		log.Debugf("inspector: %s not in %s after refresh, keeping previous view", prev.Signature, fresh.BName)
	}
	switch {
	case out.A.Found:
		out.Signature = out.A.Entry.Signature()
	case out.B.Found:
		out.Signature = out.B.Entry.Signature()
	default:
		out.Signature = fresh.Signature
	}
	return out
}

func (in *Inspector) load(ctx context.Context, name string) (snapshot.Snapshot, error) {
	if in.gw == nil {
		return snapshot.Snapshot{}, fmt.Errorf("no repository")
	}
	snap, err := repository.Load(repository.Fresh(ctx), in.gw, name, in.opts)
	if errors.Is(err, repository.ErrNotFound) {
		missing := snapshot.Missing(name, in.opts)
		missing.Meta.Source = in.gw.String()
		return missing, nil
	}
	return snap, err
}

// Compare writes the full-content difference of the displayed entry.
func (in *Inspector) Compare(w io.Writer, opts textdiff.Options) error {
	ins := in.Current()
	return Compare(w, ins, opts)
}

// Compare writes the full-content difference of the two sides of ins.
func Compare(w io.Writer, ins Inspection, opts textdiff.Options) error {
	if !ins.A.Found && !ins.B.Found {
		return fmt.Errorf("%s: %w", ins.Signature, ErrNoEntry)
	}
	return textdiff.Render(w, content(ins.A), content(ins.B), textdiff.Meta{
		AName: ins.AName,
		BName: ins.BName,
		Key:   ins.Signature.String(),
	}, opts)
}

func content(v View) string {
	if !v.Found {
		return ""
	}
	if v.Entry.Raw != "" {
		return v.Entry.Raw
	}
	return v.Entry.Value
}
