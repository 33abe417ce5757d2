// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/lorectl/internal/config"
)

// RepoSpec is the repository named on the command line and the snapshot
// optionally selected with a ::snapshot suffix.
type RepoSpec struct {
	Repo     string
	Snapshot string
}

// Meta contains runtime metadata shared by commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	RepoSpec
	StartingDir string
}
