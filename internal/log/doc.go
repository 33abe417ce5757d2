// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package log configures apex/log for lorectl and offers thin leveled
// helpers, including a trace level enabled by LORECTL_LOG=trace.
package log
