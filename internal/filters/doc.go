// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows query rows with --filter expressions.
//
// An expression is KEY, an operator and a target. KEY is matched against the
// OutputKey of the active attrs. Operators:
//
//   - = : equal
//   - ~ : equal ignoring case
//   - ^ : prefix
//   - < and > : less or greater, numeric when the value is a number
//   - @ : substring, or membership for lists and maps
//   - / : regular expression
//
// Any operator can be negated with a leading !. Expressions are comma
// separated unless LORECTL_FILTER_DELIM says otherwise:
//
//	lorectl dq v1 v2 --filter 'status!=same,label^Gate'
//	lorectl eq v1 v2 --filter 'extra.tags@x'
package filters
