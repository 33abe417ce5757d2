// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package repository defines the gateway that supplies raw collections and
// persists edits, selects an implementation from a repository spec and turns
// named collections into snapshots.
package repository
