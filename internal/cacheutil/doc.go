// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package cacheutil is a small file cache keyed by hashed clear-text keys. The
// s3 repository uses it to keep object bodies by version ID.
package cacheutil
