// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output turns the jsonapi documents built by the query commands
// into filtered, transformed and sorted rows, then prints them as a table,
// JSON or YAML.
package output
