// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package local implements the repository gateway over a directory of JSON
// and YAML collection files.
package local
