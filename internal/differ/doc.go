// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes the difference between two snapshots, flattens it
// for display and offers an interactive picker for choosing the snapshots to
// compare.
package differ
