// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/lorectl/internal/log"
	"github.com/tfctl/lorectl/internal/meta"
	"github.com/tfctl/lorectl/internal/repository"
)

// lqRow is one snapshot, or one version of a snapshot, in a repository
// listing.
type lqRow struct {
	ID       string     `jsonapi:"primary,snapshots"`
	Name     string     `jsonapi:"attr,name"`
	Version  string     `jsonapi:"attr,version,omitempty"`
	Entries  int        `jsonapi:"attr,entries"`
	Size     int64      `jsonapi:"attr,size"`
	Modified *time.Time `jsonapi:"attr,modified,iso8601,omitempty"`
	Source   string     `jsonapi:"attr,source"`
}

var lqDefaultAttrs = []string{"name", "entries", "size::b", "modified::T"}

// lqVersionAttrs adds the version column when a single snapshot is listed.
var lqVersionAttrs = []string{"name", "version", "entries", "size::b", "modified::T"}

func newLqRow(info repository.Info, entries int) *lqRow {
	row := &lqRow{
		ID:      info.Name,
		Name:    info.Name,
		Version: info.Version,
		Entries: entries,
		Size:    info.Size,
		Source:  info.Source,
	}
	if info.Version != "" {
		row.ID = info.Name + "@" + info.Version
	}
	if !info.ModTime.IsZero() {
		t := info.ModTime
		row.Modified = &t
	}
	return row
}

// lqFetch lists every snapshot in the repository or, for RepoDir::snapshot,
// the versions of that snapshot.
func lqFetch(ctx context.Context, cmd *cli.Command) ([]*lqRow, error) {
	spec, err := RepoSpec(cmd)
	if err != nil {
		return nil, err
	}

	gw, err := OpenRepository(ctx, cmd)
	if err != nil {
		return nil, err
	}
	defer repository.Close(gw)

	opts := NormalizeOptions(cmd)

	if spec.Snapshot != "" {
		return lqSnapshot(ctx, gw, spec.Snapshot, cmd)
	}

	infos, counts, err := repository.Infos(ctx, gw, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", gw, err)
	}

	rows := make([]*lqRow, 0, len(infos))
	for i, info := range infos {
		rows = append(rows, newLqRow(info, counts[i]))
	}
	return rows, nil
}

// lqSnapshot describes one snapshot. Versioned repositories list every
// version, most recent first.
func lqSnapshot(ctx context.Context, gw repository.Gateway, name string, cmd *cli.Command) ([]*lqRow, error) {
	opts := NormalizeOptions(cmd)

	if v, ok := gw.(repository.Versioner); ok {
		versions, err := v.Versions(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to list versions of %s: %w", name, err)
		}
		rows := make([]*lqRow, 0, len(versions))
		for _, info := range versions {
			snap := repository.Snapshot(ctx, gw, name+"@"+info.Version, opts)
			rows = append(rows, newLqRow(info, snap.Len()))
		}
		return rows, nil
	}

	snap, err := repository.Load(ctx, gw, name, opts)
	if err != nil {
		return nil, err
	}
	info := repository.Info{Name: name, Source: gw.String(), ModTime: snap.Meta.ModTime}
	if st, ok := gw.(repository.Stater); ok {
		if i, err := st.Stat(ctx, name); err == nil {
			info = i
		}
	}
	return []*lqRow{newLqRow(info, snap.Len())}, nil
}

func lqCommandAction(ctx context.Context, cmd *cli.Command) error {
	defaults := lqDefaultAttrs
	if spec, err := RepoSpec(cmd); err == nil && spec.Snapshot != "" {
		defaults = lqVersionAttrs
	}
	log.Debugf("lq defaults: %v", defaults)

	return NewQueryActionRunner(
		"lq",
		reflect.TypeOf((*lqRow)(nil)).Elem(),
		defaults,
		lqFetch,
	).Run(ctx, cmd)
}

func lqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "lq",
		Usage:     "list snapshots",
		UsageText: "lorectl lq [RepoDir[::snapshot]] [options]",
		Flags:     NewNormalizeFlags(),
		Action:    lqCommandAction,
		Meta:      meta,
	}).Build()
}
