// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/lorectl/internal/log"
	"github.com/tfctl/lorectl/internal/meta"
	"github.com/tfctl/lorectl/internal/normalizer"
	"github.com/tfctl/lorectl/internal/repository"
	"github.com/tfctl/lorectl/internal/repository/codec"
	"github.com/tfctl/lorectl/internal/sealed"
	"github.com/tfctl/lorectl/internal/snapshot"
)

// readCollection reads and decodes FILE, or stdin for -, as a raw collection.
// The format follows the extension; stdin and unknown extensions are JSON.
// Sealed input is opened with the usual passphrase sources.
func readCollection(cmd *cli.Command, file string) (any, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	flag := cmd.String("passphrase")
	c := &codec.Codec{Passphrase: func() (string, error) { return sealed.Passphrase(flag) }}
	raw, err := c.Decode(filepath.Ext(file), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", file, err)
	}
	return raw, nil
}

// putCommandAction stores FILE in the repository as NAME.
func putCommandAction(ctx context.Context, cmd *cli.Command) error {
	log.Debugf("executing put: args=%v", cmd.Args().Slice())

	if ShortCircuitTLDR(ctx, cmd, "put") {
		return nil
	}

	ops := Operands(cmd)
	if len(ops) != 2 {
		return fmt.Errorf("put needs NAME and FILE: %s", cmd.UsageText)
	}
	name, file := ops[0], ops[1]

	raw, err := readCollection(cmd, file)
	if err != nil {
		return err
	}

	gw, err := OpenRepository(ctx, cmd)
	if err != nil {
		return err
	}
	defer repository.Close(gw)

	if err := gw.Put(ctx, name, raw); err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}

	snap := normalizer.Normalize(name, raw, snapshot.Options{})
	fmt.Fprintf(Stdout(cmd), "Stored %s (%d entries) in %s\n", name, snap.Len(), gw)
	if snap.Meta.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d records of %s are not entries\n", snap.Meta.Skipped, name)
	}
	return nil
}

func putCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "put",
		Usage:     "store a collection in the repository",
		UsageText: "lorectl put [RepoDir] NAME FILE [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "seal",
				Usage: "store the collection sealed with the passphrase",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("LORECTL_SEAL"),
				),
			},
			newTldrFlag(),
		}, NewRepoFlags("put", meta.Config.Source)...),
		Action: putCommandAction,
	}
}
