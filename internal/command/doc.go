// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the lorectl command set: lq lists collections, dq
// diffs two snapshots, eq and ei inspect a single entry across two snapshots
// and put stores a collection. It wires flags, validators, actions and shell
// completion for each subcommand.
package command
