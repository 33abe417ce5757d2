// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/lorectl/internal/config"
	"github.com/tfctl/lorectl/internal/inspector"
	"github.com/tfctl/lorectl/internal/meta"
	"github.com/tfctl/lorectl/internal/repository"
	"github.com/tfctl/lorectl/internal/textdiff"
)

var eqDefaultAttrs = []string{"side", "snapshot", "status", "label", "preview::n80"}

// previewLength is --preview, else the preview config key, else the
// inspector default.
func previewLength(cmd *cli.Command) int {
	if cmd.IsSet("preview") {
		return cmd.Int("preview")
	}
	n, _ := config.GetInt("preview", inspector.DefaultPreview)
	return n
}

// diffOptions builds text diff options from --color, --context and --lines.
func diffOptions(cmd *cli.Command) textdiff.Options {
	opts := textdiff.DefaultOptions()
	opts.Color = cmd.Bool("color")
	if cmd.IsSet("context") {
		opts.Context = cmd.Int("context")
	}
	if cmd.Bool("lines") {
		opts.Structural = false
	}
	return opts
}

// newInspector opens the repository and inspects the operands A B and, when
// withQuery is set, SIGNATURE. The returned func releases the repository.
func newInspector(ctx context.Context, cmd *cli.Command, withQuery bool) (*inspector.Inspector, func(), error) {
	ops := Operands(cmd)
	want := 2
	if withQuery {
		want = 3
	}
	if len(ops) < want {
		return nil, nil, fmt.Errorf("%s needs %d operands, got %d: %s", cmd.Name, want, len(ops), cmd.UsageText)
	}

	gw, err := OpenRepository(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}

	var q inspector.Query
	if withQuery {
		q = inspector.ParseQuery(ops[2])
	}

	ins := inspector.New(ctx, gw, ops[0], ops[1], q, NormalizeOptions(cmd), previewLength(cmd))
	return ins, func() { repository.Close(gw) }, nil
}

func eqCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "eq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf((*inspector.SideRow)(nil)).Elem()) {
		return nil
	}

	ins, done, err := newInspector(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer done()

	if cmd.Bool("refresh") {
		if _, err := ins.Refresh(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	current := ins.Current()
	w := Stdout(cmd)

	switch {
	case cmd.String("expr") != "":
		out, err := inspector.Evaluate(cmd.String("expr"), current)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
		return nil

	case cmd.String("drill") != "":
		v := current.A
		if cmd.String("side") == "b" {
			v = current.B
		}
		res := inspector.Drill(v, cmd.String("drill"))
		if !res.Exists() {
			return fmt.Errorf("no results for %s on side %s", cmd.String("drill"), cmd.String("side"))
		}
		fmt.Fprintln(w, res.Raw)
		return nil

	case cmd.Bool("content"):
		err := ins.Compare(w, diffOptions(cmd))
		if errors.Is(err, inspector.ErrNoEntry) {
			return fmt.Errorf("%s: %w", current.Query, err)
		}
		return err
	}

	if cmd.String("output") == "text" && cmd.String("attrs") == "" {
		if err := inspector.Format(w, current); err != nil {
			return err
		}
		if current.Status() == "" {
			return fmt.Errorf("%s: %w", current.Query, inspector.ErrNoEntry)
		}
		return nil
	}

	return EmitJSONAPISlice(inspector.Rows(current), BuildAttrs(cmd, eqDefaultAttrs...), cmd)
}

func eqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "eq",
		Usage:     "inspect one entry across two snapshots",
		UsageText: "lorectl eq [RepoDir] A B SIGNATURE [options]",
		Flags: append(NewNormalizeFlags(),
			&cli.BoolFlag{
				Name:  "content",
				Usage: "show the difference of the full content",
			},
			&cli.IntFlag{
				Name:  "context",
				Usage: "unchanged lines kept around each change with --content; -1 keeps all",
				Value: 3,
			},
			&cli.StringFlag{
				Name:    "drill",
				Aliases: []string{"d"},
				Usage:   "print the value at a dotted path of the entry document",
			},
			&cli.StringFlag{
				Name:    "expr",
				Aliases: []string{"e"},
				Usage:   "evaluate an expression over the a and b entries",
			},
			&cli.BoolFlag{
				Name:  "lines",
				Usage: "always diff line by line, even JSON content",
			},
			&cli.IntFlag{
				Name:  "preview",
				Usage: "characters of content shown per side",
				Value: inspector.DefaultPreview,
				Validator: func(value int) error {
					return FlagValidators(value, NonNegativeValidator)
				},
			},
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "reload both snapshots from the repository, bypassing any cache",
			},
			&cli.StringFlag{
				Name:  "side",
				Usage: "side used by --drill (a or b)",
				Value: "b",
				Validator: func(value string) error {
					return FlagValidators(value, SideValidator)
				},
			},
		),
		Action: eqCommandAction,
		Meta:   meta,
	}).Build()
}
