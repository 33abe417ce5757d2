// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package sqlite implements the repository gateway over a table of named
// collections in an SQLite database.
package sqlite
