// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/lorectl/internal/config"
	"github.com/tfctl/lorectl/internal/meta"
	"github.com/tfctl/lorectl/internal/util"
)

// InitApp builds the lorectl command tree for args. args[2], when it is not a
// flag, is the RepoDir positional and is parsed here.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// args[1] is the subcommand and also the config namespace. It could be
	// -h/--help, so ignore it if it looks like a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is not an error.
	cfg, _ := config.Load()
	cfg.Namespace = ns
	config.Config.Namespace = ns

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	if ns != "completion" && len(args) > 2 && !strings.HasPrefix(args[2], "-") {
		repo, snap, err := util.ParseRepo(args[2])
		if err != nil {
			return nil, fmt.Errorf("failed to parse repo (%s): %w", args[2], err)
		}
		meta.Repo = repo
		meta.Snapshot = snap
	} else {
		meta.Repo = sd
	}

	app := &cli.Command{
		Name:  "lorectl",
		Usage: "compare versions of lore collections",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "lorectl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		lqCommandBuilder(meta),
		dqCommandBuilder(meta),
		eqCommandBuilder(meta),
		eiCommandBuilder(meta),
		putCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
