// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller walks decoded collection entries with a dotted path so the
// inspector can pull single values out of JSON content.
package driller
