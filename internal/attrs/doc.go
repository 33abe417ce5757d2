// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package attrs parses --attrs specs into the columns lorectl shows for
// snapshot listings, diff rows and inspected entries.
package attrs
