// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package snapshot defines the comparison-ready representation of a named lore
// record collection: normalized entries, their identity signatures, and the
// result of diffing two snapshots.
package snapshot
