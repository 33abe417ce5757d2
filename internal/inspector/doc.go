// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package inspector resolves one entry signature to its before and after
// views across two snapshots. An Inspector keeps the displayed inspection
// current by re-reading both snapshots from the repository on demand, and
// the console offers the same operations interactively.
package inspector
