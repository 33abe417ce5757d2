// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/lorectl/internal/differ"
	"github.com/tfctl/lorectl/internal/log"
	"github.com/tfctl/lorectl/internal/meta"
	"github.com/tfctl/lorectl/internal/repository"
	"github.com/tfctl/lorectl/internal/snapshot"
)

var dqDefaultAttrs = []string{"status", "signature", "before::n60", "after::n60"}

var dqSummaryAttrs = []string{"a", "b", "added", "removed", "changed", "same"}

// dqSummary is the --summary row.
type dqSummary struct {
	ID      string `jsonapi:"primary,diff-summaries"`
	A       string `jsonapi:"attr,a"`
	B       string `jsonapi:"attr,b"`
	Added   int    `jsonapi:"attr,added"`
	Removed int    `jsonapi:"attr,removed"`
	Changed int    `jsonapi:"attr,changed"`
	Same    int    `jsonapi:"attr,same"`
	Missing string `jsonapi:"attr,missing,omitempty"`
}

// dqNames returns the two snapshots to compare, from the operands or, with
// --pick, from the interactive picker.
func dqNames(ctx context.Context, cmd *cli.Command, gw repository.Gateway) (string, string, error) {
	ops := Operands(cmd)
	if len(ops) >= 2 {
		return ops[0], ops[1], nil
	}
	if !cmd.Bool("pick") {
		return "", "", fmt.Errorf("dq needs two snapshot names, or --pick")
	}

	infos, counts, err := repository.Infos(ctx, gw, NormalizeOptions(cmd))
	if err != nil {
		return "", "", fmt.Errorf("failed to list %s: %w", gw, err)
	}
	choices := make([]differ.Choice, 0, len(infos))
	for i, info := range infos {
		choices = append(choices, differ.Choice{Name: info.Name, Entries: counts[i], ModTime: info.ModTime})
	}

	picked := differ.SelectSnapshots(choices)
	if len(picked) != 2 {
		return "", "", fmt.Errorf("no snapshots selected")
	}
	return picked[0].Name, picked[1].Name, nil
}

// dqDiff loads both snapshots and diffs them. A snapshot the repository
// cannot supply compares as empty and is reported on stderr.
func dqDiff(ctx context.Context, cmd *cli.Command) (snapshot.DiffResult, []string, error) {
	gw, err := OpenRepository(ctx, cmd)
	if err != nil {
		return snapshot.DiffResult{}, nil, err
	}
	defer repository.Close(gw)

	aName, bName, err := dqNames(ctx, cmd, gw)
	if err != nil {
		return snapshot.DiffResult{}, nil, err
	}

	opts := NormalizeOptions(cmd)
	a := repository.Snapshot(ctx, gw, aName, opts)
	b := repository.Snapshot(ctx, gw, bName, opts)

	var missing []string
	for _, s := range []snapshot.Snapshot{a, b} {
		if s.Meta.Missing {
			log.Warnf("snapshot %s not found in %s, comparing as empty", s.Name, gw)
			missing = append(missing, s.Name)
		}
	}

	return differ.Diff(a, b), missing, nil
}

func dqStatuses(cmd *cli.Command) []snapshot.Status {
	var keep []snapshot.Status
	for _, s := range strings.Split(cmd.String("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			keep = append(keep, snapshot.Status(s))
		}
	}
	return keep
}

func statsLine(r snapshot.DiffResult) string {
	return fmt.Sprintf("%d added, %d removed, %d changed, %d same",
		r.Stats.Added, r.Stats.Removed, r.Stats.Changed, r.Stats.Same)
}

func dqCommandAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("summary") {
		fn := func(ctx context.Context, cmd *cli.Command) ([]*dqSummary, error) {
			r, missing, err := dqDiff(ctx, cmd)
			if err != nil {
				return nil, err
			}
			return []*dqSummary{{
				ID:      r.A + ".." + r.B,
				A:       r.A,
				B:       r.B,
				Added:   r.Stats.Added,
				Removed: r.Stats.Removed,
				Changed: r.Stats.Changed,
				Same:    r.Stats.Same,
				Missing: strings.Join(missing, ","),
			}}, nil
		}
		return NewQueryActionRunner(
			"dq",
			reflect.TypeOf((*dqSummary)(nil)).Elem(),
			dqSummaryAttrs,
			fn,
		).Run(ctx, cmd)
	}

	fn := func(ctx context.Context, cmd *cli.Command) ([]*differ.Row, error) {
		r, _, err := dqDiff(ctx, cmd)
		if err != nil {
			return nil, err
		}
		cmd.Metadata["header"] = r.A + " -> " + r.B
		cmd.Metadata["footer"] = statsLine(r)
		return differ.Rows(r, dqStatuses(cmd)...), nil
	}

	return NewQueryActionRunner(
		"dq",
		reflect.TypeOf((*differ.Row)(nil)).Elem(),
		dqDefaultAttrs,
		fn,
	).Run(ctx, cmd)
}

func dqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "dq",
		Usage:     "diff two snapshots",
		UsageText: "lorectl dq [RepoDir] A B [options]",
		Flags: append(NewNormalizeFlags(),
			&cli.BoolFlag{
				Name:  "pick",
				Usage: "choose the snapshots interactively when A and B are omitted",
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "comma-separated statuses to show (added, removed, changed, same)",
				Validator: func(value string) error {
					return FlagValidators(value, StatusValidator)
				},
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "show only the counts",
			},
		),
		Action: dqCommandAction,
		Meta:   meta,
	}).Build()
}
