// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"fmt"

	"github.com/apex/log"

	"github.com/tfctl/lorectl/internal/normalizer"
	"github.com/tfctl/lorectl/internal/snapshot"
)

// Load reads the named collection from gw and normalizes it.
func Load(ctx context.Context, gw Gateway, name string, opts snapshot.Options) (snapshot.Snapshot, error) {
	raw, err := gw.Get(ctx, name)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to load %s: %w", name, err)
	}

	snap := normalizer.Normalize(name, raw, opts)
	snap.Meta.Source = gw.String()

	if st, ok := gw.(Stater); ok {
		if info, err := st.Stat(ctx, name); err == nil {
			snap.Meta.ModTime = info.ModTime
		}
	}
	return snap, nil
}

// Snapshot is Load for callers that treat an unavailable collection as
// empty. The returned snapshot is flagged Missing in that case.
func Snapshot(ctx context.Context, gw Gateway, name string, opts snapshot.Options) snapshot.Snapshot {
	snap, err := Load(ctx, gw, name, opts)
	if err != nil {
		log.Debugf("repository: %s is missing: %v", name, err)
		missing := snapshot.Missing(name, opts)
		missing.Meta.Source = gw.String()
		return missing
	}
	return snap
}

// ToComparable turns v into a snapshot under opts. A string is a collection
// name looked up in gw and anything that is not a snapshot is normalized as a
// raw collection. A snapshot built with other options is normalized again from
// its entries; one built with opts is returned unchanged.
func ToComparable(ctx context.Context, gw Gateway, v any, opts snapshot.Options) snapshot.Snapshot {
	switch v := v.(type) {
	case string:
		return Snapshot(ctx, gw, v, opts)
	case snapshot.Snapshot:
		return renormalize(v, opts)
	case *snapshot.Snapshot:
		if v == nil {
			return snapshot.Missing("", opts)
		}
		return renormalize(*v, opts)
	default:
		return normalizer.Normalize("inline", v, opts)
	}
}

// renormalize rebuilds s under opts. Source bookkeeping carries over;
// duplicates found on the second pass are added to the first pass's count.
func renormalize(s snapshot.Snapshot, opts snapshot.Options) snapshot.Snapshot {
	if s.Meta.Options == opts {
		return s
	}
	if s.Meta.Missing {
		s.Meta.Options = opts
		return s
	}

	log.Debugf("repository: renormalizing %s: %s -> %s", s.Name, s.Meta.Options, opts)
	out := normalizer.Normalize(s.Name, normalizer.Records(s), opts)
	out.Meta.Missing = false
	out.Meta.Source = s.Meta.Source
	out.Meta.ModTime = s.Meta.ModTime
	out.Meta.Candidates = s.Meta.Candidates
	out.Meta.Skipped = s.Meta.Skipped
	out.Meta.Duplicates += s.Meta.Duplicates
	return out
}

// Infos describes every collection in gw in list order. Entry counts come
// from normalizing each collection with opts.
func Infos(ctx context.Context, gw Gateway, opts snapshot.Options) ([]Info, []int, error) {
	names, err := gw.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	infos := make([]Info, 0, len(names))
	counts := make([]int, 0, len(names))
	st, canStat := gw.(Stater)
	for _, name := range names {
		info := Info{Name: name, Source: gw.String()}
		if canStat {
			if i, err := st.Stat(ctx, name); err == nil {
				info = i
			}
		}
		snap := Snapshot(ctx, gw, name, opts)
		infos = append(infos, info)
		counts = append(counts, snap.Len())
	}
	return infos, counts, nil
}
