// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/lorectl/internal/config"
	"github.com/tfctl/lorectl/internal/inspector"
	"github.com/tfctl/lorectl/internal/log"
	"github.com/tfctl/lorectl/internal/meta"
)

// eiCommandAction loads snapshots A and B and starts the interactive entry
// inspector on the first entry of A.
func eiCommandAction(ctx context.Context, cmd *cli.Command) error {
	log.Debugf("executing ei: args=%v", cmd.Args().Slice())

	if ShortCircuitTLDR(ctx, cmd, "ei") {
		return nil
	}

	ins, done, err := newInspector(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer done()

	history := cmd.String("history")
	if !cmd.IsSet("history") {
		history, _ = config.GetString("history", inspector.DefaultHistoryFile())
	}

	console := &inspector.Console{
		Inspector:   ins,
		Diff:        diffOptions(cmd),
		HistoryFile: history,
	}
	return console.Run(ctx)
}

func eiCommandBuilder(meta meta.Meta) *cli.Command {
	flags := append(NewNormalizeFlags(),
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "color diff output",
		},
		&cli.IntFlag{
			Name:  "context",
			Usage: "unchanged lines kept around each change by diff; -1 keeps all",
			Value: 3,
		},
		&cli.StringFlag{
			Name:  "history",
			Usage: "command history file; empty disables history",
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
		newTldrFlag(),
	)
	flags = append(flags, NewRepoFlags("ei", meta.Config.Source)...)

	return &cli.Command{
		Name:      "ei",
		Usage:     "interactive entry inspector",
		UsageText: "lorectl ei [RepoDir] A B [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: eiCommandAction,
	}
}
