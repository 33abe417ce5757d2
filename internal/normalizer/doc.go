// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package normalizer turns raw, heterogeneous lore record collections into
// comparison-ready snapshots.
//
// Extraction runs an ordered list of container-shape strategies (plain
// sequence, id-keyed object, records nested under named container fields),
// so one input may mix shapes. Schema fields are found through the Aliases
// table. Keys and values are then normalized per the explicit Options:
// whitespace collapse, lowercasing and, for JSON content, a canonical
// serialization with sorted object keys.
package normalizer
