// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"

	"github.com/hashicorp/jsonapi"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/lorectl/internal/attrs"
	"github.com/tfctl/lorectl/internal/config"
	"github.com/tfctl/lorectl/internal/log"
	"github.com/tfctl/lorectl/internal/meta"
	"github.com/tfctl/lorectl/internal/output"
	"github.com/tfctl/lorectl/internal/repository"
	"github.com/tfctl/lorectl/internal/sealed"
	"github.com/tfctl/lorectl/internal/snapshot"
	"github.com/tfctl/lorectl/internal/util"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	for _, d := range defaults {
		if err := al.Set(d); err != nil {
			log.Errorf("default attrs %q: %v", d, err)
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	_ = al.SetGlobalTransformSpec()
	return
}

// DumpSchemaIfRequested writes the row attributes of t when --schema is set,
// and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema("", t, Stdout(cmd))
		return true
	}
	return false
}

// EmitJSONAPISlice marshals a slice as JSONAPI and passes it to the common
// output routine.
func EmitJSONAPISlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	if err := jsonapi.MarshalPayload(&raw, results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	output.SliceDiceSpit(raw, al, cmd, "data", Stdout(cmd), nil)
	return nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// Stdout is where command output goes: the root command's Writer, which
// tests replace, or os.Stdout.
func Stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// Operands returns the positional arguments that follow the repository.
func Operands(cmd *cli.Command) []string {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return nil
	}
	return args[1:]
}

// RepoSpec resolves the repository for cmd. --repo, from the flag, the
// environment or config, wins over the RepoDir positional. A ::snapshot
// suffix on --repo is honored when the positional carried none.
func RepoSpec(cmd *cli.Command) (meta.RepoSpec, error) {
	spec := GetMeta(cmd).RepoSpec
	if flag := cmd.String("repo"); flag != "" {
		repo, snap, err := util.ParseRepo(flag)
		if err != nil {
			return meta.RepoSpec{}, fmt.Errorf("failed to parse repo (%s): %w", flag, err)
		}
		spec.Repo = repo
		if snap != "" {
			spec.Snapshot = snap
		}
	}
	return spec, nil
}

// OpenRepository opens the gateway for cmd's repository. Callers release it
// with repository.Close.
func OpenRepository(ctx context.Context, cmd *cli.Command) (repository.Gateway, error) {
	spec, err := RepoSpec(cmd)
	if err != nil {
		return nil, err
	}

	flag := cmd.String("passphrase")
	gw, err := repository.New(ctx, repository.Options{
		Spec:   spec.Repo,
		Region: cmd.String("region"),
		Passphrase: func() (string, error) {
			return sealed.Passphrase(flag)
		},
		Seal: cmd.Bool("seal"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", spec.Repo, err)
	}
	log.Debugf("repository: %s", gw)
	return gw, nil
}

// NormalizeOptions returns the comparison options for cmd: config values for
// the command's namespace, overridden by any flag given explicitly.
func NormalizeOptions(cmd *cli.Command) snapshot.Options {
	opts := config.Options(cmd.Name)
	if cmd.IsSet("ignore-whitespace") {
		opts.IgnoreWhitespace = cmd.Bool("ignore-whitespace")
	}
	if cmd.IsSet("ignore-case") {
		opts.IgnoreCase = cmd.Bool("ignore-case")
	}
	if cmd.IsSet("json-normalize") {
		opts.JSONNormalize = cmd.Bool("json-normalize")
	}
	log.Debugf("normalize options: %s", opts)
	return opts
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr lorectl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "lorectl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}
