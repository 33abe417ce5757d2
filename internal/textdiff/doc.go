// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package textdiff renders the full-content difference between two entry
// values. Plain text is compared line by line; when both sides are JSON
// documents of the same shape a structural diff is rendered instead.
package textdiff
